package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rashmika0907/zentask/internal/assist"
	"github.com/rashmika0907/zentask/internal/briefing"
	"github.com/rashmika0907/zentask/internal/model"
	"github.com/rashmika0907/zentask/internal/tasks"
)

const (
	maxTitleSize       = 1 << 10  // 1KB
	maxDescriptionSize = 10 << 10 // 10KB
)

// requireSession rejects task and AI routes when nobody is logged in.
func (s *Server) requireSession(c *gin.Context) {
	if _, _, ok := s.current(); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "not logged in",
		})
		return
	}
	c.Next()
}

// Auth handlers

type credentials struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var creds credentials
	if err := c.BindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	sess, err := s.sessions.Register(creds.Username, creds.Password, creds.ConfirmPassword)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	s.setSession(sess)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    sess.User,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var creds credentials
	if err := c.BindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	sess, err := s.sessions.Login(creds.Username, creds.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	s.setSession(sess)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    sess.User,
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.sessions.Logout(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	s.setSession(nil)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}

func (s *Server) handleSession(c *gin.Context) {
	sess, _, ok := s.current()
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"authenticated": false,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"authenticated": true,
		"user":          sess.User,
	})
}

// Task handlers

func (s *Server) handleListTasks(c *gin.Context) {
	_, store, _ := s.current()

	status := model.Status(c.DefaultQuery("status", string(model.StatusAll)))
	if status != model.StatusAll && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "unknown status filter",
		})
		return
	}

	list := store.Filter(status)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   list,
		"count":   len(list),
	})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	_, store, _ := s.current()

	var draft tasks.Draft
	if err := c.BindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	if len(draft.Title) > maxTitleSize || len(draft.Description) > maxDescriptionSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "task fields exceed maximum size",
		})
		return
	}

	task, err := store.Create(draft)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"task":    task,
	})
}

func (s *Server) handleGetTask(c *gin.Context) {
	_, store, _ := s.current()

	task, ok := store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "task not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"task":     task,
		"progress": task.Progress(),
	})
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	_, store, _ := s.current()

	var patch tasks.Patch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	task, ok, err := store.Update(c.Param("id"), patch)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "task not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    task,
	})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	_, store, _ := s.current()

	// Destructive action: the client must confirm explicitly. Declining
	// leaves state untouched.
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "deletion requires confirm=true",
		})
		return
	}

	removed, err := store.Delete(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "task not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted",
	})
}

func (s *Server) handleStats(c *gin.Context) {
	_, store, _ := s.current()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   store.Stats(),
	})
}

// AI handlers

func (s *Server) handleDecompose(c *gin.Context) {
	_, store, _ := s.current()

	task, ok := store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "task not found",
		})
		return
	}

	subTasks, err := s.assist.Decompose(c.Request.Context(), task.Title, task.Description)
	if errors.Is(err, assist.ErrBusy) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "decomposition already in progress",
		})
		return
	}

	// Wholesale replacement; an empty result leaves the prior list empty too
	updated, ok, err := store.SetSubTasks(task.ID, subTasks)
	if err != nil || !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to attach sub-tasks",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    updated,
	})
}

func (s *Server) handleToggleSubTask(c *gin.Context) {
	_, store, _ := s.current()

	task, ok, err := store.ToggleSubTask(c.Param("id"), c.Param("subID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "task or sub-task not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"task":     task,
		"progress": task.Progress(),
	})
}

type aiFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Server) handleRefine(c *gin.Context) {
	var fields aiFields
	if err := c.BindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	refined, err := s.assist.Refine(c.Request.Context(), fields.Title, fields.Description)
	if errors.Is(err, assist.ErrBusy) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "refinement already in progress",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"description": refined,
	})
}

func (s *Server) handleSuggest(c *gin.Context) {
	var fields aiFields
	if err := c.BindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	suggestion, err := s.assist.Suggest(c.Request.Context(), fields.Title, fields.Description)
	if errors.Is(err, assist.ErrBusy) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "suggestion already in progress",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"suggestion": suggestion,
	})
}

func (s *Server) handleBriefing(c *gin.Context) {
	_, store, _ := s.current()

	samples, err := s.briefer.Generate(c.Request.Context(), store.All())
	if errors.Is(err, briefing.ErrBusy) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "a briefing is already in progress",
		})
		return
	}
	if err != nil {
		// Generic notice; the cause is logged. Not retried.
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "could not generate briefing at this time",
		})
		return
	}

	c.Data(http.StatusOK, "audio/wav", briefing.EncodeWAV(samples, s.briefer.SampleRate()))
}
