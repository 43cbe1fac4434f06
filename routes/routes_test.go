package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sabelo-news/api-go/middleware"
	"github.com/sabelo-news/api-go/models"
	"github.com/sabelo-news/api-go/thread"
	"github.com/sabelo-news/api-go/thread/threadtest"
	"github.com/sabelo-news/api-go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "routes-secret"

// newRouter serves the given accounts from memory instead of the users
// table.
func newRouter(t *testing.T, accounts ...*models.User) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", secret)
	gin.SetMode(gin.TestMode)

	broker := thread.NewBroker()
	service := thread.NewService(threadtest.NewMemoryStore(broker), broker)

	r := gin.New()
	byID := map[string]*models.User{}
	for _, a := range accounts {
		byID[a.ID] = a
	}
	users := func(_ context.Context, id string) (*models.User, error) {
		if u, ok := byID[id]; ok {
			return u, nil
		}
		return nil, middleware.ErrUnknownUser
	}

	SetupRoutes(r, nil, users, service, nil)
	return r
}

func bearer(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(user, secret)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestSetupRoutesRegistersEndpoints(t *testing.T) {
	r := newRouter(t)

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"POST /api/register",
		"POST /api/login",
		"GET /api/news",
		"GET /api/news/:id",
		"GET /api/news/:id/comments",
		"GET /api/news/:id/comments/stream",
		"POST /api/news/:id/comments",
		"POST /api/comments/:id/like",
		"GET /api/editor/comments",
		"PATCH /api/admin/users/:id/roles",
		"POST /api/ads",
		"DELETE /api/upload/file/*key",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestRouteGuards(t *testing.T) {
	reader := &models.User{Name: "Lector"}
	reader.ID = "reader"
	editor := &models.User{Name: "Editora", Editor: true}
	editor.ID = "editor"
	deleted := &models.User{Name: "Borrado"}
	deleted.ID = "deleted"
	r := newRouter(t, reader, editor)

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
	}{
		{"public comments", http.MethodGet, "/api/news/A/comments", "", http.StatusOK},
		{"comment needs token", http.MethodPost, "/api/news/A/comments", "", http.StatusUnauthorized},
		{"blank comment", http.MethodPost, "/api/news/A/comments", bearer(t, reader), http.StatusNoContent},
		{"deleted account", http.MethodPost, "/api/news/A/comments", bearer(t, deleted), http.StatusUnauthorized},
		{"editor area", http.MethodGet, "/api/editor/dashboard", bearer(t, reader), http.StatusForbidden},
		{"admin area", http.MethodGet, "/api/admin/users", bearer(t, editor), http.StatusForbidden},
		{"ads need marketing", http.MethodPost, "/api/ads", bearer(t, editor), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{"text":"  "}`))
			req.Header.Set("Content-Type", "application/json")
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
