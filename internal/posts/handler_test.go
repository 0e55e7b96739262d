package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
	"github.com/pulso-lab/pulso/internal/core/storage"
)

func newTestRouter(store storage.PostStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewService(store, 1).RegisterRoutes(r)
	return r
}

func validPostBody() map[string]interface{} {
	return map[string]interface{}{
		"username":          "marta",
		"tipo_post":         "Instagram",
		"fecha_publicacion": "2026-03-02T00:00:00Z",
		"hora_publicacion":  "10:00:00",
		"impresiones":       100,
		"me_gusta":          5,
		"comentarios":       3,
		"compartidos":       2,
	}
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateHandler_Success(t *testing.T) {
	store := storage.NewMemoryPostStore()
	r := newTestRouter(store)

	w := postJSON(t, r, "/v1/posts", validPostBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var created v1.PostRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID) // server assigns one when missing
	require.Equal(t, int64(10), created.TotalInteractions)
	require.InDelta(t, 0.10, created.EngagementRate, 1e-9)
}

func TestCreateHandler_InvalidJSON(t *testing.T) {
	r := newTestRouter(storage.NewMemoryPostStore())

	req := httptest.NewRequest(http.MethodPost, "/v1/posts", strings.NewReader("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateHandler_ValidationFailure(t *testing.T) {
	r := newTestRouter(storage.NewMemoryPostStore())

	body := validPostBody()
	body["impresiones"] = -1
	w := postJSON(t, r, "/v1/posts", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateHandler_Duplicate(t *testing.T) {
	store := storage.NewMemoryPostStore()
	r := newTestRouter(store)

	body := validPostBody()
	body["id"] = "11111111-1111-1111-1111-111111111111"
	require.Equal(t, http.StatusCreated, postJSON(t, r, "/v1/posts", body).Code)
	require.Equal(t, http.StatusConflict, postJSON(t, r, "/v1/posts", body).Code)
}

func TestCreateHandler_BodyTooLarge(t *testing.T) {
	r := newTestRouter(storage.NewMemoryPostStore())

	body := validPostBody()
	body["notas"] = strings.Repeat("x", 2*1024*1024)
	w := postJSON(t, r, "/v1/posts", body)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestListHandler_PaginatedNewestFirst(t *testing.T) {
	store := storage.NewMemoryPostStore()
	for i := 0; i < 15; i++ {
		post := &v1.PostRecord{
			ID:          fmt.Sprintf("post-%02d", i),
			Username:    "marta",
			PostType:    "Instagram",
			PublishDate: time.Date(2026, 3, 1+i, 0, 0, 0, 0, time.UTC),
			PublishTime: "10:00:00",
			Impressions: 100,
		}
		require.NoError(t, store.SavePost(context.Background(), post))
	}
	r := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/v1/posts?username=marta&page=2&limit=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(15), resp.Total)
	require.Equal(t, 2, resp.Page)
	require.Len(t, resp.Posts, 5)
	// Page two continues the newest-first order.
	require.Equal(t, "post-04", resp.Posts[0].ID)
}

func TestListHandler_RequiresUsername(t *testing.T) {
	r := newTestRouter(storage.NewMemoryPostStore())

	req := httptest.NewRequest(http.MethodGet, "/v1/posts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTypesHandler(t *testing.T) {
	store := storage.NewMemoryPostStore()
	for i, postType := range []string{"Reel", "Instagram", "Reel"} {
		post := &v1.PostRecord{
			ID:          fmt.Sprintf("post-%d", i),
			Username:    "marta",
			PostType:    postType,
			PublishDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			PublishTime: "10:00:00",
			Impressions: 1,
		}
		require.NoError(t, store.SavePost(context.Background(), post))
	}
	r := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/v1/posts/types?username=marta", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Types []string `json:"types"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.ElementsMatch(t, []string{"Instagram", "Reel"}, resp.Types)
}
