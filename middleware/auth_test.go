package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sabelo-news/api-go/models"
	"github.com/sabelo-news/api-go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

// accounts is an in-memory UserLoader.
type accounts struct {
	mu    sync.Mutex
	users map[string]models.User
	err   error
}

func newAccounts(users ...*models.User) *accounts {
	a := &accounts{users: map[string]models.User{}}
	for _, u := range users {
		a.put(u)
	}
	return a
}

func (a *accounts) put(u *models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[u.ID] = *u
}

func (a *accounts) remove(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.users, id)
}

func (a *accounts) load(_ context.Context, id string) (*models.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	u, ok := a.users[id]
	if !ok {
		return nil, ErrUnknownUser
	}
	return &u, nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		user := utils.GetUser(c)
		if user == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, user.UserID+":"+user.Name)
	})
	r.GET("/", handlers...)
	return r
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(user, secret)
	require.NoError(t, err)
	return token
}

func get(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	user := &models.User{Name: "Ana"}
	user.ID = "u-1"
	ghost := &models.User{Name: "Nadie"}
	ghost.ID = "u-gone"
	r := newRouter(AuthMiddleware(newAccounts(user).load))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"bad format", "Token abc", http.StatusUnauthorized, ""},
		{"garbage token", "Bearer abc", http.StatusUnauthorized, ""},
		{"unknown account", "Bearer " + tokenFor(t, ghost), http.StatusUnauthorized, ""},
		{"valid", "Bearer " + tokenFor(t, user), http.StatusOK, "u-1:Ana"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareLoaderFailure(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	user := &models.User{Name: "Ana"}
	user.ID = "u-1"
	users := newAccounts(user)
	users.err = errors.New("connection refused")
	r := newRouter(AuthMiddleware(users.load))

	assert.Equal(t, http.StatusInternalServerError, get(r, "Bearer "+tokenFor(t, user)).Code)
}

func TestClaimsFollowTheAccount(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	user := &models.User{Name: "Old Name", Editor: true}
	user.ID = "u-3"
	users := newAccounts(user)
	token := "Bearer " + tokenFor(t, user)
	r := newRouter(AuthMiddleware(users.load), RequireRole(models.RoleEditor))

	w := get(r, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-3:Old Name", w.Body.String())

	renamed := *user
	renamed.Name = "New Name"
	users.put(&renamed)
	assert.Equal(t, "u-3:New Name", get(r, token).Body.String())

	renamed.Editor = false
	users.put(&renamed)
	assert.Equal(t, http.StatusForbidden, get(r, token).Code)

	users.remove(user.ID)
	assert.Equal(t, http.StatusUnauthorized, get(r, token).Code)
}

func TestOptionalAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	user := &models.User{Name: "Ana"}
	user.ID = "u-2"
	users := newAccounts(user)
	r := newRouter(OptionalAuth(users.load))

	assert.Equal(t, "anonymous", get(r, "").Body.String())
	assert.Equal(t, "anonymous", get(r, "Bearer nope").Body.String())
	assert.Equal(t, "u-2:Ana", get(r, "Bearer "+tokenFor(t, user)).Body.String())

	users.remove(user.ID)
	assert.Equal(t, "anonymous", get(r, "Bearer "+tokenFor(t, user)).Body.String())
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	reader := &models.User{Name: "Lector"}
	reader.ID = "reader"
	editor := &models.User{Name: "Editora", Editor: true}
	editor.ID = "editor"
	r := newRouter(AuthMiddleware(newAccounts(reader, editor).load), RequireRole(models.RoleEditor, models.RoleAdmin))

	assert.Equal(t, http.StatusForbidden, get(r, "Bearer "+tokenFor(t, reader)).Code)
	w := get(r, "Bearer "+tokenFor(t, editor))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "editor:Editora", w.Body.String())
}

func TestDBUsersRejectsMalformedIDs(t *testing.T) {
	_, err := DBUsers(nil)(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrUnknownUser)
}
