package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sabelo-news/api-go/models"
	"github.com/sabelo-news/api-go/newsapi"
	"github.com/sabelo-news/api-go/store"
	"github.com/sabelo-news/api-go/thread"
	"github.com/sabelo-news/api-go/utils"
	"gorm.io/gorm"
)

// ArticleSource is the public feed the portal reads articles from.
type ArticleSource interface {
	List(ctx context.Context) ([]newsapi.Article, error)
	Get(ctx context.Context, id string) (*newsapi.Article, error)
}

type NewsController struct {
	DB       *gorm.DB
	Articles ArticleSource
	Comments *thread.Service
	Store    *store.CommentStore
}

func NewNewsController(db *gorm.DB, articles ArticleSource, comments *thread.Service) *NewsController {
	return &NewsController{
		DB:       db,
		Articles: articles,
		Comments: comments,
		Store:    store.NewCommentStore(db),
	}
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// blankHTML reports whether s has no visible text once tags and
// non-breaking spaces are stripped.
func blankHTML(s string) bool {
	text := htmlTag.ReplaceAllString(s, "")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	return strings.TrimSpace(text) == ""
}

func toArticle(n *models.News) newsapi.Article {
	return newsapi.Article{
		ID:       n.ID,
		Title:    n.Title,
		Image:    n.Image,
		Content:  n.Content,
		UserID:   n.UserID,
		Category: n.Category,
	}
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ListNews serves the home feed, optionally narrowed with ?category. When
// the feed is down the locally written news are served instead.
func (nc *NewsController) ListNews(c *gin.Context) {
	ctx := c.Request.Context()

	articles, err := nc.Articles.List(ctx)
	if err != nil {
		log.Printf("news: feed unavailable, serving local news: %v", err)
		var local []models.News
		if err := nc.DB.WithContext(ctx).Order("created_at DESC").Find(&local).Error; err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch news", "success": false})
			return
		}
		articles = make([]newsapi.Article, 0, len(local))
		for i := range local {
			articles = append(articles, toArticle(&local[i]))
		}
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    newsapi.FilterByCategory(articles, c.Query("category")),
	})
}

func (nc *NewsController) findArticle(ctx context.Context, id string) (*newsapi.Article, error) {
	article, err := nc.Articles.Get(ctx, id)
	if err == nil || !errors.Is(err, newsapi.ErrNotFound) || !isUUID(id) {
		return article, err
	}

	var local models.News
	if dbErr := nc.DB.WithContext(ctx).First(&local, "id = ?", id).Error; dbErr != nil {
		return nil, err
	}
	a := toArticle(&local)
	return &a, nil
}

// GetNewsDetail returns the article, its author card and the comment forest
// as seen by the (optional) signed-in reader.
func (nc *NewsController) GetNewsDetail(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	article, err := nc.findArticle(ctx, id)
	if errors.Is(err, newsapi.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "News not found", "success": false})
		return
	}
	if err != nil {
		log.Printf("news: get %s: %v", id, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch news", "success": false})
		return
	}

	var author gin.H
	if isUUID(article.UserID) {
		var user models.User
		if err := nc.DB.WithContext(ctx).First(&user, "id = ?", article.UserID).Error; err == nil {
			author = gin.H{"id": user.ID, "name": user.DisplayName(), "photoURL": user.PhotoURL}
		}
	}

	forest, err := nc.Comments.Forest(ctx, id, utils.GetUser(c).Viewer())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comments", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"news":     article,
			"author":   author,
			"comments": forest,
		},
	})
}

type newsInput struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	Image    string `json:"image" binding:"omitempty,url"`
	Category string `json:"category" binding:"max=50"`
}

func (nc *NewsController) CreateNews(c *gin.Context) {
	user := utils.GetUser(c)

	var input newsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}
	if blankHTML(input.Title) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title cannot be empty", "success": false})
		return
	}

	news := models.News{
		Title:    input.Title,
		Content:  input.Content,
		Image:    input.Image,
		Category: strings.ToLower(strings.TrimSpace(input.Category)),
		UserID:   user.UserID,
	}
	if err := nc.DB.WithContext(c.Request.Context()).Create(&news).Error; err != nil {
		log.Printf("news: create by %s: %v", user.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create news", "success": false})
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    news,
		Message: "News created successfully",
	})
}

func (nc *NewsController) ListMyNews(c *gin.Context) {
	user := utils.GetUser(c)
	page, size := pageParams(c, 10)
	query := nc.DB.WithContext(c.Request.Context()).Model(&models.News{}).Where("user_id = ?", user.UserID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news", "success": false})
		return
	}

	news := []models.News{}
	if err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&news).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       news,
		Pagination: newPagination(page, size, total),
	})
}

// ownNews loads the news item in :id and checks the caller wrote it. It
// writes the error response itself and returns nil when the caller may not
// touch it.
func (nc *NewsController) ownNews(c *gin.Context) *models.News {
	user := utils.GetUser(c)
	id := c.Param("id")

	var news models.News
	if !isUUID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "News not found", "success": false})
		return nil
	}
	err := nc.DB.WithContext(c.Request.Context()).First(&news, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "News not found", "success": false})
		return nil
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news", "success": false})
		return nil
	}
	if news.UserID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only manage your own news", "success": false})
		return nil
	}
	return &news
}

func (nc *NewsController) GetMyNews(c *gin.Context) {
	news := nc.ownNews(c)
	if news == nil {
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: news})
}

func (nc *NewsController) UpdateNews(c *gin.Context) {
	news := nc.ownNews(c)
	if news == nil {
		return
	}

	var input newsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}
	if blankHTML(input.Title) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title cannot be empty", "success": false})
		return
	}

	updates := map[string]interface{}{
		"title":    input.Title,
		"content":  input.Content,
		"image":    input.Image,
		"category": strings.ToLower(strings.TrimSpace(input.Category)),
	}
	if err := nc.DB.WithContext(c.Request.Context()).Model(news).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update news", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    news,
		Message: "News updated successfully",
	})
}

func (nc *NewsController) DeleteNews(c *gin.Context) {
	news := nc.ownNews(c)
	if news == nil {
		return
	}
	if err := store.DeleteNews(c.Request.Context(), nc.DB, news.ID); err != nil {
		log.Printf("news: delete %s: %v", news.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete news", "success": false})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "News deleted successfully"})
}

// Dashboard shows the editor's latest article and the latest comment left
// on any of their articles.
func (nc *NewsController) Dashboard(c *gin.Context) {
	user := utils.GetUser(c)
	ctx := c.Request.Context()

	var latestNews *models.News
	var news models.News
	err := nc.DB.WithContext(ctx).Where("user_id = ?", user.UserID).Order("created_at DESC").First(&news).Error
	switch {
	case err == nil:
		latestNews = &news
	case !errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard", "success": false})
		return
	}

	latestComment, err := nc.Store.LatestOnNewsBy(ctx, user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"latestNews":    latestNews,
			"latestComment": latestComment,
		},
	})
}
