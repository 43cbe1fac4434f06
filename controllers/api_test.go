package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sabelo-news/api-go/controllers"
	"github.com/sabelo-news/api-go/middleware"
	"github.com/sabelo-news/api-go/models"
	"github.com/sabelo-news/api-go/routes"
	"github.com/sabelo-news/api-go/store"
	"github.com/sabelo-news/api-go/thread"
	"github.com/sabelo-news/api-go/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const testSecret = "controllers-secret"

// testAPI is the full router on a real Postgres. Tests using it are skipped
// without TEST_DATABASE_URL.
type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newAPI(t *testing.T) *testAPI {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	t.Setenv("JWT_SECRET", testSecret)
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.News{}, &models.Comment{}, &models.Ad{}))

	broker := thread.NewBroker()
	comments := thread.NewService(store.NewCommentStore(db), broker)

	r := gin.New()
	routes.SetupRoutes(r, db, middleware.DBUsers(db), comments, nil)
	return &testAPI{t: t, db: db, router: r}
}

func uniqueEmail() string {
	return "test-" + uuid.New().String() + "@example.com"
}

// newAccount stores a user, lets setup switch on roles, and returns it with
// an access token.
func (a *testAPI) newAccount(name string, setup func(*models.User)) (*models.User, string) {
	a.t.Helper()
	user := &models.User{Name: name, Email: uniqueEmail(), Provider: "email"}
	if setup != nil {
		setup(user)
	}
	require.NoError(a.t, a.db.Create(user).Error)
	a.t.Cleanup(func() { a.db.Select("RefreshTokens").Delete(user) })

	token, err := utils.GenerateAccessToken(user, testSecret)
	require.NoError(a.t, err)
	return user, token
}

func (a *testAPI) call(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success    bool                        `json:"success"`
	Data       json.RawMessage             `json:"data"`
	Pagination *controllers.PaginationMeta `json:"pagination"`
}

// decode reads a StandardResponse, fills out from its data and returns it.
func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

func requireStatus(t *testing.T, want int, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, w.Code, w.Body.String())
}

func jsonBody(w *httptest.ResponseRecorder, out interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), out)
}
