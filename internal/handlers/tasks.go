package handlers

import (
	"net/http"
	"time"

	"pomo/internal/repository"
	"pomo/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest is the standalone task creation payload.
type CreateTaskRequest struct {
	Name        string `json:"name" binding:"required" example:"write report"`
	Description string `json:"description,omitempty"`
	Pomodoro    int    `json:"pomodoro" example:"3"`
	ProjectID   *int64 `json:"projectId,omitempty"`
}

// UpdateTaskRequest is a partial task update; absent fields are left
// untouched.
type UpdateTaskRequest struct {
	Name              *string    `json:"name,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Pomodoro          *int       `json:"pomodoro,omitempty"`
	PomodoroCompleted *int       `json:"pomodoroCompleted,omitempty"`
	Completed         *bool      `json:"completed,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

func (r UpdateTaskRequest) toTaskUpdate() repository.TaskUpdate {
	return repository.TaskUpdate{
		Name:              r.Name,
		Description:       r.Description,
		Pomodoro:          r.Pomodoro,
		PomodoroCompleted: r.PomodoroCompleted,
		Completed:         r.Completed,
		CompletedAt:       r.CompletedAt,
	}
}

// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body  CreateTaskRequest  true  "Task payload"
// @Success      201   {object}  map[string]interface{}  "status, task"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/tasks [post]
// @Security     BearerAuth
func (h *Handler) createTask(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	task, err := h.services.Tasks.Create(c.Request.Context(), user.ID, service.TaskInput{
		Name:        req.Name,
		Description: req.Description,
		Pomodoro:    req.Pomodoro,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		h.writeError(c, "create_task_failed", err, "user_id", user.ID)
		return
	}
	writeSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// @Summary      Get task
// @Tags         tasks
// @Produce      json
// @Param        taskId  path  int  true  "Task ID"
// @Success      200     {object}  map[string]interface{}  "status, task"
// @Failure      404     {object}  map[string]string
// @Router       /api/v1/tasks/{taskId} [get]
// @Security     BearerAuth
func (h *Handler) getTask(c *gin.Context) {
	id, ok := h.parseIDParam(c, "taskId")
	if !ok {
		return
	}
	task, err := h.services.Tasks.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "get_task_failed", err, "task_id", id)
		return
	}
	writeSuccess(c, http.StatusOK, gin.H{"task": task})
}

// @Summary      List tasks in a project
// @Tags         tasks
// @Produce      json
// @Param        projectId  path  int  true  "Project ID"
// @Success      200        {object}  map[string]interface{}
// @Failure      401        {object}  map[string]string
// @Router       /api/v1/tasks/project/{projectId} [get]
// @Security     BearerAuth
func (h *Handler) listTasksByProject(c *gin.Context) {
	projectID, ok := h.parseIDParam(c, "projectId")
	if !ok {
		return
	}
	tasks, err := h.services.Tasks.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.writeError(c, "list_tasks_by_project_failed", err, "project_id", projectID)
		return
	}
	writeSuccess(c, http.StatusOK, gin.H{"results": len(tasks), "tasks": tasks})
}

// @Summary      List a user's tasks
// @Tags         tasks
// @Produce      json
// @Param        userId  path  int  true  "User ID"
// @Success      200     {object}  map[string]interface{}
// @Failure      401     {object}  map[string]string
// @Router       /api/v1/tasks/user/{userId} [get]
// @Security     BearerAuth
func (h *Handler) listTasksByUser(c *gin.Context) {
	userID, ok := h.parseIDParam(c, "userId")
	if !ok {
		return
	}
	tasks, err := h.services.Tasks.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, "list_tasks_by_user_failed", err, "user_id", userID)
		return
	}
	writeSuccess(c, http.StatusOK, gin.H{"results": len(tasks), "tasks": tasks})
}

// @Summary      Update task
// @Description  Marking a task completed stamps its completion time.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        taskId  path  int                true  "Task ID"
// @Param        body    body  UpdateTaskRequest  true  "Partial update"
// @Success      200     {object}  map[string]interface{}  "status, task"
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/v1/tasks/{taskId} [patch]
// @Security     BearerAuth
func (h *Handler) updateTask(c *gin.Context) {
	id, ok := h.parseIDParam(c, "taskId")
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	task, err := h.services.Tasks.Update(c.Request.Context(), id, req.toTaskUpdate())
	if err != nil {
		h.writeError(c, "update_task_failed", err, "task_id", id)
		return
	}
	writeSuccess(c, http.StatusOK, gin.H{"task": task})
}

// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Param        taskId  path  int  true  "Task ID"
// @Success      204     "no content"
// @Failure      404     {object}  map[string]string
// @Router       /api/v1/tasks/{taskId} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTask(c *gin.Context) {
	id, ok := h.parseIDParam(c, "taskId")
	if !ok {
		return
	}
	if err := h.services.Tasks.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, "delete_task_failed", err, "task_id", id)
		return
	}
	c.Status(http.StatusNoContent)
}
