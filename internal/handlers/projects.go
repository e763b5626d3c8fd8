package handlers

import (
	"net/http"
	"time"

	"pomo/internal/repository"
	"pomo/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateProjectRequest is the project creation payload.
type CreateProjectRequest struct {
	Name         string     `json:"name" binding:"required" example:"thesis"`
	Description  string     `json:"description,omitempty"`
	ImageCover   string     `json:"imageCover,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	Contributors []int64    `json:"contributors,omitempty"`
}

// UpdateProjectRequest is a partial project update; absent fields are
// left untouched.
type UpdateProjectRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	ImageCover  *string    `json:"imageCover,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// ProjectTaskRequest is the payload for creating a task inside a project.
type ProjectTaskRequest struct {
	Name        string `json:"name" binding:"required" example:"draft intro"`
	Description string `json:"description,omitempty"`
	Pomodoro    int    `json:"pomodoro" example:"3"`
}

// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        body  body  CreateProjectRequest  true  "Project payload"
// @Success      201   {object}  map[string]interface{}  "status, project"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/projects [post]
// @Security     BearerAuth
func (h *Handler) createProject(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req CreateProjectRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	project, err := h.services.Projects.Create(c.Request.Context(), user.ID, service.ProjectInput{
		Name:         req.Name,
		Description:  req.Description,
		ImageCover:   req.ImageCover,
		DueDate:      req.DueDate,
		Contributors: req.Contributors,
	})
	if err != nil {
		h.writeError(c, "create_project_failed", err, "owner_id", user.ID)
		return
	}
	writeSuccess(c, http.StatusCreated, gin.H{"project": project})
}

// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, results, projects"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/projects [get]
// @Security     BearerAuth
func (h *Handler) listProjects(c *gin.Context) {
	projects, err := h.services.Projects.List(c.Request.Context())
	if err != nil {
		h.writeError(c, "list_projects_failed", err)
		return
	}
	writeSuccess(c, http.StatusOK, gin.H{"results": len(projects), "projects": projects})
}

// @Summary      List projects owned by a user
// @Tags         projects
// @Produce      json
// @Param        userId  path  int  true  "Owner ID"
// @Success      200     {object}  map[string]interface{}
// @Failure      401     {object}  map[string]string
// @Router       /api/v1/projects/user/{userId} [get]
// @Security     BearerAuth
func (h *Handler) listProjectsByUser(c *gin.Context) {
	ownerID, ok := h.parseIDParam(c, "userId")
	if !ok {
		return
	}
	projects, err := h.services.Projects.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.writeError(c, "list_projects_by_user_failed", err, "owner_id", ownerID)
		return
	}
	writeSuccess(c, http.StatusOK, gin.H{"results": len(projects), "projects": projects})
}

// @Summary      Get project with its tasks
// @Tags         projects
// @Produce      json
// @Param        projectId  path  int  true  "Project ID"
// @Success      200        {object}  map[string]interface{}  "status, project"
// @Failure      404        {object}  map[string]string
// @Router       /api/v1/projects/{projectId} [get]
// @Security     BearerAuth
func (h *Handler) getProject(c *gin.Context) {
	id, ok := h.parseIDParam(c, "projectId")
	if !ok {
		return
	}
	project, err := h.services.Projects.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "get_project_failed", err, "project_id", id)
		return
	}
	writeSuccess(c, http.StatusOK, gin.H{"project": project})
}

// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        projectId  path  int                   true  "Project ID"
// @Param        body       body  UpdateProjectRequest  true  "Partial update"
// @Success      200        {object}  map[string]interface{}  "status, project"
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/v1/projects/{projectId} [patch]
// @Security     BearerAuth
func (h *Handler) updateProject(c *gin.Context) {
	id, ok := h.parseIDParam(c, "projectId")
	if !ok {
		return
	}
	var req UpdateProjectRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	project, err := h.services.Projects.Update(c.Request.Context(), id, repository.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		ImageCover:  req.ImageCover,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.writeError(c, "update_project_failed", err, "project_id", id)
		return
	}
	writeSuccess(c, http.StatusOK, gin.H{"project": project})
}

// @Summary      Delete project
// @Description  Standalone tasks survive; they are detached from the project.
// @Tags         projects
// @Produce      json
// @Param        projectId  path  int  true  "Project ID"
// @Success      204        "no content"
// @Failure      404        {object}  map[string]string
// @Router       /api/v1/projects/{projectId} [delete]
// @Security     BearerAuth
func (h *Handler) deleteProject(c *gin.Context) {
	id, ok := h.parseIDParam(c, "projectId")
	if !ok {
		return
	}
	if err := h.services.Projects.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, "delete_project_failed", err, "project_id", id)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Add task to project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        projectId  path  int                 true  "Project ID"
// @Param        body       body  ProjectTaskRequest  true  "Task payload"
// @Success      201        {object}  map[string]interface{}  "status, project"
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/v1/projects/{projectId}/tasks [post]
// @Security     BearerAuth
func (h *Handler) addProjectTask(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "projectId")
	if !ok {
		return
	}
	var req ProjectTaskRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	project, err := h.services.Projects.AddTask(c.Request.Context(), id, user.ID, service.ProjectTaskInput{
		Name:        req.Name,
		Description: req.Description,
		Pomodoro:    req.Pomodoro,
	})
	if err != nil {
		h.writeError(c, "add_project_task_failed", err, "project_id", id)
		return
	}
	writeSuccess(c, http.StatusCreated, gin.H{"project": project})
}

// @Summary      Update task inside project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        projectId  path  int                true  "Project ID"
// @Param        taskId     path  int                true  "Task ID"
// @Param        body       body  UpdateTaskRequest  true  "Partial update"
// @Success      200        {object}  map[string]interface{}  "status, project"
// @Failure      404        {object}  map[string]string
// @Router       /api/v1/projects/{projectId}/tasks/{taskId} [patch]
// @Security     BearerAuth
func (h *Handler) updateProjectTask(c *gin.Context) {
	projectID, ok := h.parseIDParam(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := h.parseIDParam(c, "taskId")
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	project, err := h.services.Projects.UpdateTask(c.Request.Context(), projectID, taskID, req.toTaskUpdate())
	if err != nil {
		h.writeError(c, "update_project_task_failed", err, "project_id", projectID, "task_id", taskID)
		return
	}
	writeSuccess(c, http.StatusOK, gin.H{"project": project})
}

// @Summary      Remove task from project
// @Tags         projects
// @Produce      json
// @Param        projectId  path  int  true  "Project ID"
// @Param        taskId     path  int  true  "Task ID"
// @Success      200        {object}  map[string]interface{}  "status, project"
// @Failure      404        {object}  map[string]string
// @Router       /api/v1/projects/{projectId}/tasks/{taskId} [delete]
// @Security     BearerAuth
func (h *Handler) removeProjectTask(c *gin.Context) {
	projectID, ok := h.parseIDParam(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := h.parseIDParam(c, "taskId")
	if !ok {
		return
	}

	project, err := h.services.Projects.RemoveTask(c.Request.Context(), projectID, taskID)
	if err != nil {
		h.writeError(c, "remove_project_task_failed", err, "project_id", projectID, "task_id", taskID)
		return
	}
	writeSuccess(c, http.StatusOK, gin.H{"project": project})
}
