package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pawan09032004/planwise/internal/auth"
	"github.com/pawan09032004/planwise/internal/checklist"
	"github.com/pawan09032004/planwise/internal/core"
)

func (s *Server) handleTempRoadmap(c *gin.Context) {
	var req struct {
		ProjectTitle       string `json:"project_title"`
		Title              string `json:"title"`
		ProjectDescription string `json:"project_description"`
		Description        string `json:"description"`
		Deadline           string `json:"deadline"`
		ProblemStatement   string `json:"problem_statement"`
		Priority           string `json:"priority"`
		Prompt             string `json:"prompt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// Both field spellings are accepted for title and description.
	title := req.ProjectTitle
	if title == "" {
		title = req.Title
	}
	description := req.ProjectDescription
	if description == "" {
		description = req.Description
	}

	result, err := s.engine.GenerateTempRoadmap(c.Request.Context(), core.TempRoadmapInput{
		Title:            title,
		Description:      description,
		Deadline:         req.Deadline,
		Priority:         req.Priority,
		ProblemStatement: req.ProblemStatement,
		Prompt:           req.Prompt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGenerateRoadmap(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Requirements string `json:"requirements"`
		Priority     string `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	result, err := s.engine.GenerateRoadmap(c.Request.Context(), projectID, req.Requirements, req.Priority)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGenerateReport(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}

	pdf, filename, err := s.engine.BuildReport(projectID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (s *Server) handleSaveTasksProgress(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	projectID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Tasks []checklist.Task `json:"tasks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Tasks == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No tasks provided"})
		return
	}

	if err := s.engine.SaveTasksProgress(claims.UserID, projectID, req.Tasks); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Tasks progress saved successfully",
		"tasks":   req.Tasks,
	})
}
