package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
	httperr "github.com/pulso-lab/pulso/internal/core/errors"
	"github.com/pulso-lab/pulso/internal/core/storage"
)

const (
	msgInvalidJSON     = "Invalid JSON body"
	msgBadCredentials  = "Invalid email or password"
	msgDuplicateUser   = "Username or email already registered"
	msgUserNotFound    = "User not found"
	msgInternalFailure = "Internal error"
)

type registerRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// RegisterHandler handles POST /v1/users/register.
func (s *Service) RegisterHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   msgInvalidJSON,
			Details:   err.Error(),
		})
		return
	}

	user := &v1.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	}
	if user.Role == "" {
		user.Role = v1.RoleClient
	}
	if err := user.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   err.Error(),
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		slog.Error("Password hashing failed", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   msgInternalFailure,
		})
		return
	}
	user.PasswordHash = string(hash)

	if err := s.store.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			c.JSON(http.StatusConflict, httperr.ErrorResponse{
				ErrorType: httperr.HttpDuplicateError,
				Message:   msgDuplicateUser,
			})
			return
		}
		slog.Error("Failed to create user", "error", err, "username", user.Username)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   msgInternalFailure,
		})
		return
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  *v1.User `json:"user"`
}

// LoginHandler handles POST /v1/users/login. Unknown email and wrong
// password answer identically so the endpoint does not leak which accounts
// exist.
func (s *Service) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   msgInvalidJSON,
		})
		return
	}

	user, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, httperr.ErrorResponse{
				ErrorType: httperr.HttpUnauthorizedError,
				Message:   msgBadCredentials,
			})
			return
		}
		slog.Error("Login lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   msgInternalFailure,
		})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, httperr.ErrorResponse{
			ErrorType: httperr.HttpUnauthorizedError,
			Message:   msgBadCredentials,
		})
		return
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		slog.Error("Token generation failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   msgInternalFailure,
		})
		return
	}

	slog.Info("User logged in", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

// ListHandler handles GET /v1/users (admin).
func (s *Service) ListHandler(c *gin.Context) {
	list, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   msgInternalFailure,
		})
		return
	}
	if list == nil {
		list = []*v1.User{}
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

type updateRequest struct {
	Email     string `json:"email" binding:"omitempty,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Password  string `json:"password" binding:"omitempty,min=8"`
}

// UpdateHandler handles PUT /v1/users/:id (admin).
func (s *Service) UpdateHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "User id must be an integer",
		})
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   msgInvalidJSON,
			Details:   err.Error(),
		})
		return
	}
	if req.Role != "" && !v1.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid role",
		})
		return
	}

	if req.Email != "" {
		taken, err := s.store.EmailTaken(c.Request.Context(), req.Email, id)
		if err != nil {
			slog.Error("Email lookup failed", "error", err)
			c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
				ErrorType: httperr.HttpInternalError,
				Message:   msgInternalFailure,
			})
			return
		}
		if taken {
			c.JSON(http.StatusConflict, httperr.ErrorResponse{
				ErrorType: httperr.HttpDuplicateError,
				Message:   msgDuplicateUser,
			})
			return
		}
	}

	user := &v1.User{
		ID:        id,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			slog.Error("Password hashing failed", "error", err)
			c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
				ErrorType: httperr.HttpInternalError,
				Message:   msgInternalFailure,
			})
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := s.store.UpdateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, httperr.ErrorResponse{
				ErrorType: httperr.HttpNotFoundError,
				Message:   msgUserNotFound,
			})
			return
		}
		slog.Error("Failed to update user", "error", err, "user_id", id)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   msgInternalFailure,
		})
		return
	}

	slog.Info("User updated", "user_id", id)
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// MeHandler handles GET /v1/users/me. It resolves the caller from the token
// claims so any authenticated account can inspect its own profile.
func (s *Service) MeHandler(c *gin.Context) {
	claims := CallerClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, httperr.ErrorResponse{
			ErrorType: httperr.HttpUnauthorizedError,
			Message:   "Missing authentication",
		})
		return
	}

	user, err := s.store.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, httperr.ErrorResponse{
				ErrorType: httperr.HttpUnauthorizedError,
				Message:   "Account no longer exists",
			})
			return
		}
		slog.Error("Failed to resolve caller account", "error", err, "user_id", claims.UserID)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   msgInternalFailure,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteHandler handles DELETE /v1/users/:id (admin). Admins cannot remove
// their own account; that would orphan the session mid-request.
func (s *Service) DeleteHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "User id must be an integer",
		})
		return
	}
	if claims := CallerClaims(c); claims != nil && claims.UserID == id {
		c.JSON(http.StatusForbidden, httperr.ErrorResponse{
			ErrorType: httperr.HttpForbiddenError,
			Message:   "Cannot delete your own account",
		})
		return
	}

	username, err := s.store.DeleteUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, httperr.ErrorResponse{
				ErrorType: httperr.HttpNotFoundError,
				Message:   msgUserNotFound,
			})
			return
		}
		slog.Error("Failed to delete user", "error", err, "user_id", id)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   msgInternalFailure,
		})
		return
	}

	slog.Info("User deleted", "user_id", id, "username", username)
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "username": username})
}
