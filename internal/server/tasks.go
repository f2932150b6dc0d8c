package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tasklist/internal/service"
	"tasklist/internal/storage"
)

type taskRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

var errTextRequired = errors.New("text is required")

// handleCreateTask inserts a new open task.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		s.respondError(c, http.StatusBadRequest, errTextRequired)
		return
	}

	task, err := s.store.Create(c.Request.Context(), *req.Text)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// handleListTasks returns every task as a bare JSON array.
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.List(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// handleUpdateTask applies the fields present in the body.
func (s *Server) handleUpdateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Text != nil && strings.TrimSpace(*req.Text) == "" {
		s.respondError(c, http.StatusBadRequest, errTextRequired)
		return
	}

	task, err := s.store.Update(c.Request.Context(), c.Param("id"), service.TaskUpdate{
		Text:      req.Text,
		Completed: req.Completed,
	})
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// handleDeleteTask removes a task.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id := c.Param("id")
	err := s.store.Delete(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("task %s deleted", id)})
}
