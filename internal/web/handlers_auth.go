package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawan09032004/planwise/internal/auth"
	"github.com/pawan09032004/planwise/internal/core"
)

func (s *Server) handleSignup(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	result, err := s.engine.Signup(req.Email, req.Password, req.FullName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	result, err := s.engine.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetProfile(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	profile, err := s.engine.Profile(claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	var req struct {
		FullName *string `json:"full_name"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	profile, err := s.engine.UpdateProfile(claims.UserID, core.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleDeleteAccount(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	if err := s.engine.DeleteAccount(claims.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User account deleted successfully"})
}
