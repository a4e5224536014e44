package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pawan09032004/planwise/internal/auth"
	"github.com/pawan09032004/planwise/internal/core"
)

// Server is the Planwise web server
type Server struct {
	engine *core.Engine
	issuer *auth.TokenIssuer
	router *gin.Engine
}

// NewServer creates a new web server
func NewServer(engine *core.Engine, issuer *auth.TokenIssuer) *Server {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders:   []string{"Content-Type", "Authorization", "Content-Disposition"},
		MaxAge:          24 * time.Hour,
	}))

	s := &Server{
		engine: engine,
		issuer: issuer,
		router: router,
	}

	api := router.Group("/api")
	{
		api.POST("/auth/signup", s.handleSignup)
		api.POST("/auth/login", s.handleLogin)
		api.POST("/temp-roadmap", s.handleTempRoadmap)
	}

	authed := router.Group("/api", auth.Middleware(issuer))
	{
		authed.GET("/user/profile", s.handleGetProfile)
		authed.PUT("/user/profile", s.handleUpdateProfile)
		authed.DELETE("/user/profile", s.handleDeleteAccount)

		authed.POST("/organizations", s.handleCreateOrganization)
		authed.GET("/organizations", s.handleListOrganizations)
		authed.GET("/organizations/:id", s.handleGetOrganization)
		authed.PUT("/organizations/:id", s.handleUpdateOrganization)
		authed.DELETE("/organizations/:id", s.handleDeleteOrganization)

		authed.POST("/organizations/:id/projects", s.handleCreateProject)
		authed.GET("/organizations/:id/projects", s.handleListProjects)

		authed.GET("/projects/:id", s.handleGetProject)
		authed.DELETE("/projects/:id", s.handleDeleteProject)
		authed.POST("/projects/:id/tasks", s.handleCreateTask)
		authed.GET("/projects/:id/tasks", s.handleListTasks)
		authed.POST("/projects/:id/generate-roadmap", s.handleGenerateRoadmap)
		authed.GET("/projects/:id/generate-report", s.handleGenerateReport)
		authed.POST("/projects/:id/save-tasks-progress", s.handleSaveTasksProgress)

		authed.PUT("/tasks/:id", s.handleUpdateTask)
		authed.DELETE("/tasks/:id", s.handleDeleteTask)
	}

	return s
}

// Run starts the web server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// respondError maps engine failure classes onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, core.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
	case errors.Is(err, core.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"message": "Permission denied"})
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Resource not found"})
	case errors.Is(err, core.ErrCooldown):
		c.JSON(http.StatusTooManyRequests, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
