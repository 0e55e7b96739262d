package calendar

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
	httperr "github.com/pulso-lab/pulso/internal/core/errors"
	"github.com/pulso-lab/pulso/internal/core/storage"
)

// Service serves the content-calendar task endpoints.
type Service struct {
	store storage.TaskStore
}

func NewService(store storage.TaskStore) *Service {
	if store == nil {
		panic("calendar: store must not be nil")
	}
	return &Service{store: store}
}

// RegisterRoutes registers the calendar routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/calendar/tasks", s.ListHandler)
	r.POST("/v1/calendar/tasks", s.CreateHandler)
}

// ListHandler handles GET /v1/calendar/tasks?username.
func (s *Service) ListHandler(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "username is required",
		})
		return
	}
	tasks, err := s.store.ListTasks(c.Request.Context(), username)
	if err != nil {
		slog.Error("Failed to list tasks", "error", err, "username", username)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to list tasks",
		})
		return
	}
	if tasks == nil {
		tasks = []*v1.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CreateHandler handles POST /v1/calendar/tasks.
func (s *Service) CreateHandler(c *gin.Context) {
	var task v1.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid JSON body",
			Details:   err.Error(),
		})
		return
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if err := task.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   err.Error(),
		})
		return
	}
	if err := s.store.SaveTask(c.Request.Context(), &task); err != nil {
		slog.Error("Failed to save task", "error", err, "task_id", task.ID)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to save task",
		})
		return
	}
	slog.Info("Task created", "task_id", task.ID, "username", task.Username)
	c.JSON(http.StatusCreated, task)
}
