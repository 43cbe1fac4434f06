// Package newsapi reads published articles from the public news feed API.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrNotFound = errors.New("article not found")

// Categories with their own section on the home page. Everything else is
// listed under CategoryOther.
var Categories = []string{"futbol", "basquet", "rugby"}

const CategoryOther = "otros"

type Article struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Content  string `json:"content"`
	UserID   string `json:"userId"`
	Category string `json:"category"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) List(ctx context.Context) ([]Article, error) {
	var articles []Article
	if err := c.get(ctx, "/news", &articles); err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []Article{}
	}
	return articles, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Article, error) {
	var article Article
	if err := c.get(ctx, "/news/"+url.PathEscape(id), &article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("news api %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("news api %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("news api %s: decode: %w", path, err)
	}
	return nil
}

// FilterByCategory keeps the articles of category, compared without case.
// CategoryOther matches anything outside Categories. An empty category
// keeps everything.
func FilterByCategory(articles []Article, category string) []Article {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return articles
	}
	out := []Article{}
	for _, a := range articles {
		if categoryOf(a) == category {
			out = append(out, a)
		}
	}
	return out
}

func categoryOf(a Article) string {
	cat := strings.ToLower(a.Category)
	for _, known := range Categories {
		if cat == known {
			return cat
		}
	}
	return CategoryOther
}
