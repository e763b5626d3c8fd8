package handlers

import (
	"net/http"

	"pomo/internal/logger"
	"pomo/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Activity stream over WebSocket — same port
	router.GET("/ws", h.wsConnect)

	return router
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", h.signUp)
		auth.POST("/login", h.logIn)
		auth.POST("/forgotPassword", h.forgotPassword)
		auth.PATCH("/resetPassword/:token", h.resetPassword)
		auth.PATCH("/updateMyPassword", h.authenticate, h.updateMyPassword)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.authenticate)
	{
		h.registerUserRoutes(api)
		h.registerProjectRoutes(api)
		h.registerTaskRoutes(api)
		h.registerActivityRoutes(api)
	}
}

func (h *Handler) registerUserRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		users.GET("/", h.requireAdmin, h.listUsers)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/deleteMe", h.deleteMe)
	}
}

func (h *Handler) registerProjectRoutes(api *gin.RouterGroup) {
	projects := api.Group("/projects")
	{
		projects.POST("/", h.createProject)
		projects.GET("/", h.listProjects)
		projects.GET("/user/:userId", h.listProjectsByUser)
		projects.GET("/:projectId", h.getProject)
		projects.PATCH("/:projectId", h.updateProject)
		projects.DELETE("/:projectId", h.deleteProject)
		projects.POST("/:projectId/tasks", h.addProjectTask)
		projects.PATCH("/:projectId/tasks/:taskId", h.updateProjectTask)
		projects.DELETE("/:projectId/tasks/:taskId", h.removeProjectTask)
	}
}

func (h *Handler) registerTaskRoutes(api *gin.RouterGroup) {
	tasks := api.Group("/tasks")
	{
		tasks.POST("/", h.createTask)
		tasks.GET("/project/:projectId", h.listTasksByProject)
		tasks.GET("/user/:userId", h.listTasksByUser)
		tasks.GET("/:taskId", h.getTask)
		tasks.PATCH("/:taskId", h.updateTask)
		tasks.DELETE("/:taskId", h.deleteTask)
	}
}

func (h *Handler) registerActivityRoutes(api *gin.RouterGroup) {
	activity := api.Group("/activity")
	{
		activity.GET("/", h.getActivity)
	}
}
