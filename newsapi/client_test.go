package newsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/news", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Article{
			{ID: "1", Title: "Final", Category: "Futbol"},
			{ID: "2", Title: "Playoffs", Category: "basquet"},
			{ID: "3", Title: "Tenis", Category: "tenis"},
			{ID: "4", Title: "Sin categoría"},
		})
	})
	mux.HandleFunc("/api/news/1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Article{ID: "1", Title: "Final", UserID: "author-1"})
	})
	mux.HandleFunc("/api/news/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientList(t *testing.T) {
	srv := newTestServer(t)
	client := New(srv.URL + "/api/")

	articles, err := client.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, articles, 4)
}

func TestClientGet(t *testing.T) {
	srv := newTestServer(t)
	client := New(srv.URL + "/api")

	article, err := client.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "author-1", article.UserID)

	_, err = client.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.Get(context.Background(), "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFilterByCategory(t *testing.T) {
	articles := []Article{
		{ID: "1", Category: "Futbol"},
		{ID: "2", Category: "basquet"},
		{ID: "3", Category: "tenis"},
		{ID: "4"},
	}

	ids := func(as []Article) []string {
		out := []string{}
		for _, a := range as {
			out = append(out, a.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1"}, ids(FilterByCategory(articles, "futbol")))
	assert.Equal(t, []string{"3", "4"}, ids(FilterByCategory(articles, "otros")))
	assert.Equal(t, []string{}, ids(FilterByCategory(articles, "rugby")))
	assert.Len(t, FilterByCategory(articles, ""), 4)
}
