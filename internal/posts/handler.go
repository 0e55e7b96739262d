package posts

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
	httperr "github.com/pulso-lab/pulso/internal/core/errors"
	"github.com/pulso-lab/pulso/internal/core/storage"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgPersistFailed  = "Failed to persist post"
	msgDuplicatePost  = "Post already exists"

	defaultPageSize = 10
	maxPageSize     = 100
)

// postError carries the structured HTTP error shape from a helper back to the
// orchestrator. Helpers return this instead of writing to gin.Context
// directly, keeping them decoupled from HTTP.
type postError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *postError) Error() string {
	return e.message
}

// CreateHandler handles HTTP POST requests for new post records.
func (s *Service) CreateHandler(c *gin.Context) {
	post, err := s.parsePost(c)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("Received Post",
		"post_id", post.ID,
		"username", post.Username,
		"post_type", post.PostType)

	if err := s.persistPost(c, post); err != nil {
		writeError(c, err)
		return
	}

	// The stored row carries the computed interaction totals.
	c.JSON(http.StatusCreated, post)
}

// parsePost reads the raw request body, binds it and validates the record.
func (s *Service) parsePost(c *gin.Context) (*v1.PostRecord, *postError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, &postError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}
	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, &postError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var post v1.PostRecord
	if err := c.ShouldBindJSON(&post); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, &postError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if err := post.Validate(); err != nil {
		slog.Warn("Post validation failed", "error", err, "post_id", post.ID)
		return nil, &postError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    err.Error(),
		}
	}
	return &post, nil
}

// persistPost saves the record to the backing store.
func (s *Service) persistPost(c *gin.Context, post *v1.PostRecord) *postError {
	if err := s.store.SavePost(c.Request.Context(), post); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			slog.Info("Duplicate post rejected", "post_id", post.ID, "username", post.Username)
			return &postError{
				statusCode: http.StatusConflict,
				errorType:  httperr.HttpDuplicateError,
				message:    msgDuplicatePost,
			}
		}
		slog.Error("Failed to persist post", "error", err, "post_id", post.ID)
		return &postError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
		}
	}
	return nil
}

// ListResponse wraps one page of a user's post history.
type ListResponse struct {
	Posts []*v1.PostRecord `json:"posts"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Total int64            `json:"total"`
}

// ListHandler handles GET /v1/posts?username&page&limit, newest first.
func (s *Service) ListHandler(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "username is required",
		})
		return
	}

	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", defaultPageSize)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	records, err := s.store.QueryPosts(c.Request.Context(), storage.PostFilter{
		Username: username,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		slog.Error("Failed to list posts", "error", err, "username", username)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to list posts",
		})
		return
	}
	total, err := s.store.CountPosts(c.Request.Context(), username)
	if err != nil {
		slog.Error("Failed to count posts", "error", err, "username", username)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to list posts",
		})
		return
	}
	if records == nil {
		records = []*v1.PostRecord{}
	}
	c.JSON(http.StatusOK, ListResponse{Posts: records, Page: page, Limit: limit, Total: total})
}

// ListTypesHandler handles GET /v1/posts/types?username.
func (s *Service) ListTypesHandler(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "username is required",
		})
		return
	}
	types, err := s.store.ListPostTypes(c.Request.Context(), username)
	if err != nil {
		slog.Error("Failed to list post types", "error", err, "username", username)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to list post types",
		})
		return
	}
	if types == nil {
		types = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// writeError serializes a postError as the JSON HTTP response.
func writeError(c *gin.Context, err *postError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
