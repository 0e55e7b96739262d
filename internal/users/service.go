package users

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulso-lab/pulso/internal/core/storage"
)

// Service handles account registration, login and admin user management.
type Service struct {
	store      storage.UserStore
	jwt        *JWTManager
	bcryptCost int
}

func NewService(store storage.UserStore, jwt *JWTManager, bcryptCost int) *Service {
	if store == nil {
		panic("users: store must not be nil")
	}
	if jwt == nil {
		panic("users: jwt manager must not be nil")
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{store: store, jwt: jwt, bcryptCost: bcryptCost}
}

// RegisterRoutes registers the account routes. Management endpoints sit
// behind the auth middleware and an admin gate.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/users/register", s.RegisterHandler)
	r.POST("/v1/users/login", s.LoginHandler)
	r.GET("/v1/users/me", s.RequireAuth(), s.MeHandler)

	admin := r.Group("/v1/users", s.RequireAuth(), s.RequireAdmin())
	admin.GET("", s.ListHandler)
	admin.PUT("/:id", s.UpdateHandler)
	admin.DELETE("/:id", s.DeleteHandler)
}
