package posts

import (
	"github.com/gin-gonic/gin"

	"github.com/pulso-lab/pulso/internal/core/storage"
)

// Service accepts new post records and serves the per-user post history.
type Service struct {
	store            storage.PostStore
	maxBodySizeBytes int
}

func NewService(store storage.PostStore, maxBodySizeMB int) *Service {
	if store == nil {
		panic("posts: store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		store:            store,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the post CRUD routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/posts", s.CreateHandler)
	r.GET("/v1/posts", s.ListHandler)
	r.GET("/v1/posts/types", s.ListTypesHandler)
}
