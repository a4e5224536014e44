package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pawan09032004/planwise/internal/auth"
	"github.com/pawan09032004/planwise/internal/core"
	"github.com/pawan09032004/planwise/internal/storage"
)

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return 0, false
	}
	return id, true
}

// ---- Organizations ----

func (s *Server) handleCreateOrganization(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	org, err := s.engine.CreateOrganization(claims.UserID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (s *Server) handleListOrganizations(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	orgs, err := s.engine.ListOrganizations(claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orgs)
}

func (s *Server) handleGetOrganization(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	orgID, ok := pathID(c)
	if !ok {
		return
	}

	org, err := s.engine.GetOrganization(orgID, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (s *Server) handleUpdateOrganization(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	orgID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	org, err := s.engine.UpdateOrganization(orgID, claims.UserID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (s *Server) handleDeleteOrganization(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	orgID, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.engine.DeleteOrganization(orgID, claims.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Organization deleted successfully"})
}

// ---- Projects ----

func (s *Server) handleCreateProject(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	orgID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		Deadline       string `json:"deadline"`
		RoadmapText    string `json:"roadmap_text"`
		TasksChecklist string `json:"tasks_checklist"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	project, err := s.engine.CreateProject(claims.UserID, orgID, core.ProjectInput{
		Title:          req.Title,
		Description:    req.Description,
		Deadline:       req.Deadline,
		RoadmapText:    req.RoadmapText,
		TasksChecklist: req.TasksChecklist,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (s *Server) handleListProjects(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	orgID, ok := pathID(c)
	if !ok {
		return
	}
	includeTasks := c.DefaultQuery("include_tasks", "false") == "true"

	projects, err := s.engine.ListProjects(claims.UserID, orgID, includeTasks)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) handleGetProject(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}

	project, err := s.engine.GetProject(projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	projectID, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.engine.DeleteProject(claims.UserID, projectID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// ---- Tasks ----

func (s *Server) handleCreateTask(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Title             string `json:"title"`
		Description       string `json:"description"`
		Status            string `json:"status"`
		Priority          string `json:"priority"`
		PhaseName         string `json:"phase_name"`
		PhaseOrder        int    `json:"phase_order"`
		TaskOrder         int    `json:"task_order"`
		EstimatedDuration string `json:"estimated_duration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	task, err := s.engine.CreateTask(projectID, core.TaskInput{
		Title:             req.Title,
		Description:       req.Description,
		Status:            req.Status,
		Priority:          req.Priority,
		PhaseName:         req.PhaseName,
		PhaseOrder:        req.PhaseOrder,
		TaskOrder:         req.TaskOrder,
		EstimatedDuration: req.EstimatedDuration,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleListTasks(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}

	tasks, err := s.engine.ListTasks(projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	taskID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Title             *string `json:"title"`
		Description       *string `json:"description"`
		Status            *string `json:"status"`
		Priority          *string `json:"priority"`
		AssignedTo        *int64  `json:"assigned_to"`
		Deadline          *string `json:"deadline"`
		PhaseName         *string `json:"phase_name"`
		PhaseOrder        *int    `json:"phase_order"`
		TaskOrder         *int    `json:"task_order"`
		EstimatedDuration *string `json:"estimated_duration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Title == nil || *req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Task title is required"})
		return
	}

	task, err := s.engine.UpdateTask(taskID, storage.TaskUpdate{
		Title:             req.Title,
		Description:       req.Description,
		Status:            req.Status,
		Priority:          req.Priority,
		AssignedTo:        req.AssignedTo,
		Deadline:          req.Deadline,
		PhaseName:         req.PhaseName,
		PhaseOrder:        req.PhaseOrder,
		TaskOrder:         req.TaskOrder,
		EstimatedDuration: req.EstimatedDuration,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	taskID, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.engine.DeleteTask(taskID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
