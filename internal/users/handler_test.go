package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
	"github.com/pulso-lab/pulso/internal/core/storage"
)

func newTestService(t *testing.T) (*Service, *storage.MemoryUserStore) {
	t.Helper()
	jwt, err := NewJWTManager("test-secret-test-secret-test-secret", time.Hour)
	require.NoError(t, err)
	store := storage.NewMemoryUserStore()
	return NewService(store, jwt, bcrypt.MinCost), store
}

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerBody() map[string]string {
	return map[string]string{
		"username":   "marta",
		"email":      "marta@example.com",
		"password":   "contraseña-larga",
		"first_name": "Marta",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/v1/users/register", registerBody(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	var created v1.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, v1.RoleClient, created.Role) // default role
	require.NotContains(t, w.Body.String(), "contraseña")

	w = doJSON(t, r, http.MethodPost, "/v1/users/login", map[string]string{
		"email": "marta@example.com", "password": "contraseña-larga",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	claims, err := svc.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	require.Equal(t, "marta", claims.Username)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	r := newTestRouter(svc)

	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/v1/users/register", registerBody(), "").Code)

	body := registerBody()
	body["username"] = "otra"
	require.Equal(t, http.StatusConflict, doJSON(t, r, http.MethodPost, "/v1/users/register", body, "").Code)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc, _ := newTestService(t)
	r := newTestRouter(svc)

	body := registerBody()
	body["password"] = "corta"
	require.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/v1/users/register", body, "").Code)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := newTestService(t)
	r := newTestRouter(svc)
	doJSON(t, r, http.MethodPost, "/v1/users/register", registerBody(), "")

	wrong := doJSON(t, r, http.MethodPost, "/v1/users/login", map[string]string{
		"email": "marta@example.com", "password": "incorrecta-larga",
	}, "")
	unknown := doJSON(t, r, http.MethodPost, "/v1/users/login", map[string]string{
		"email": "nadie@example.com", "password": "incorrecta-larga",
	}, "")
	require.Equal(t, http.StatusUnauthorized, wrong.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.JSONEq(t, wrong.Body.String(), unknown.Body.String())
}

func seedAdmin(t *testing.T, svc *Service, store *storage.MemoryUserStore) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-password"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &v1.User{
		Username:     "admin",
		Email:        "admin@example.com",
		Role:         v1.RoleAdmin,
		PasswordHash: string(hash),
	}
	require.NoError(t, store.CreateUser(context.Background(), admin))

	token, err := svc.jwt.GenerateToken(admin.ID, admin.Username, admin.Role)
	require.NoError(t, err)
	return token
}

func TestMe_ReturnsCallerAccount(t *testing.T) {
	svc, _ := newTestService(t)
	r := newTestRouter(svc)

	require.Equal(t, http.StatusCreated,
		doJSON(t, r, http.MethodPost, "/v1/users/register", registerBody(), "").Code)

	w := doJSON(t, r, http.MethodPost, "/v1/users/login", map[string]string{
		"email": "marta@example.com", "password": "contraseña-larga",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var login loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	// No token.
	require.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodGet, "/v1/users/me", nil, "").Code)

	// A plain client token is enough; no admin gate on /me.
	w = doJSON(t, r, http.MethodGet, "/v1/users/me", nil, login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		User v1.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, login.User.ID, resp.User.ID)
	require.Equal(t, "marta", resp.User.Username)
	require.Equal(t, "marta@example.com", resp.User.Email)
	require.NotContains(t, w.Body.String(), "contraseña")
}

func TestMe_DeletedAccountUnauthorized(t *testing.T) {
	svc, store := newTestService(t)
	r := newTestRouter(svc)
	adminToken := seedAdmin(t, svc, store)

	_, err := store.DeleteUser(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodGet, "/v1/users/me", nil, adminToken).Code)
}

func TestListUsers_RequiresAdmin(t *testing.T) {
	svc, store := newTestService(t)
	r := newTestRouter(svc)
	adminToken := seedAdmin(t, svc, store)

	// No token.
	require.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodGet, "/v1/users", nil, "").Code)

	// Client token.
	clientToken, err := svc.jwt.GenerateToken(99, "marta", v1.RoleClient)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, doJSON(t, r, http.MethodGet, "/v1/users", nil, clientToken).Code)

	// Admin token.
	w := doJSON(t, r, http.MethodGet, "/v1/users", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateUser(t *testing.T) {
	svc, store := newTestService(t)
	r := newTestRouter(svc)
	adminToken := seedAdmin(t, svc, store)

	client := &v1.User{Username: "marta", Email: "marta@example.com", Role: v1.RoleClient, PasswordHash: "x"}
	require.NoError(t, store.CreateUser(context.Background(), client))

	w := doJSON(t, r, http.MethodPut, "/v1/users/2", map[string]string{
		"email": "nueva@example.com", "role": "admin",
	}, adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	updated, err := store.GetUserByEmail(context.Background(), "nueva@example.com")
	require.NoError(t, err)
	require.Equal(t, v1.RoleAdmin, updated.Role)
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	svc, store := newTestService(t)
	r := newTestRouter(svc)
	adminToken := seedAdmin(t, svc, store)

	client := &v1.User{Username: "marta", Email: "marta@example.com", Role: v1.RoleClient, PasswordHash: "x"}
	require.NoError(t, store.CreateUser(context.Background(), client))

	w := doJSON(t, r, http.MethodPut, "/v1/users/2", map[string]string{
		"email": "admin@example.com",
	}, adminToken)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteUser(t *testing.T) {
	svc, store := newTestService(t)
	r := newTestRouter(svc)
	adminToken := seedAdmin(t, svc, store)

	client := &v1.User{Username: "marta", Email: "marta@example.com", Role: v1.RoleClient, PasswordHash: "x"}
	require.NoError(t, store.CreateUser(context.Background(), client))

	w := doJSON(t, r, http.MethodDelete, "/v1/users/2", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "marta")

	require.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodDelete, "/v1/users/2", nil, adminToken).Code)
}

func TestDeleteUser_SelfDeletionForbidden(t *testing.T) {
	svc, store := newTestService(t)
	r := newTestRouter(svc)
	adminToken := seedAdmin(t, svc, store)

	w := doJSON(t, r, http.MethodDelete, "/v1/users/1", nil, adminToken)
	require.Equal(t, http.StatusForbidden, w.Code)
}
