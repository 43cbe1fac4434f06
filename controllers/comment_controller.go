package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sabelo-news/api-go/models"
	"github.com/sabelo-news/api-go/store"
	"github.com/sabelo-news/api-go/thread"
	"github.com/sabelo-news/api-go/utils"
	"gorm.io/gorm"
)

const defaultKeepAlive = 20 * time.Second

type CommentController struct {
	Service *thread.Service
	Store   *store.CommentStore
	DB      *gorm.DB

	// KeepAlive is the interval of comment lines sent on idle streams.
	KeepAlive time.Duration
}

func NewCommentController(db *gorm.DB, service *thread.Service) *CommentController {
	return &CommentController{
		Service:   service,
		Store:     store.NewCommentStore(db),
		DB:        db,
		KeepAlive: defaultKeepAlive,
	}
}

func (cc *CommentController) GetComments(c *gin.Context) {
	forest, err := cc.Service.Forest(c.Request.Context(), c.Param("id"), utils.GetUser(c).Viewer())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comments", "success": false})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: forest})
}

// StreamComments sends the comment forest of an article as server-sent
// "comments" events: once on connect and again after every change. The
// stream ends when the client goes away.
func (cc *CommentController) StreamComments(c *gin.Context) {
	ctx := c.Request.Context()
	newsID := c.Param("id")
	viewer := utils.GetUser(c).Viewer()

	// Only the newest forest matters to a slow client.
	snapshots := make(chan []*thread.Node, 1)
	errs := make(chan error, 1)
	go func() {
		errs <- cc.Service.Watch(ctx, newsID, viewer, func(forest []*thread.Node) {
			select {
			case <-snapshots:
			default:
			}
			snapshots <- forest
		})
	}()

	keepAlive := cc.KeepAlive
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	started := false
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			if err != nil && !started {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comments", "success": false})
			}
			return
		case forest := <-snapshots:
			if !started {
				c.Header("Content-Type", "text/event-stream")
				c.Header("Cache-Control", "no-cache")
				c.Header("Connection", "keep-alive")
				c.Header("X-Accel-Buffering", "no")
				c.Status(http.StatusOK)
				started = true
			}
			c.SSEvent("comments", forest)
			c.Writer.Flush()
		case <-ticker.C:
			if started {
				fmt.Fprint(c.Writer, ": ping\n\n")
				c.Writer.Flush()
			}
		}
	}
}

type postCommentInput struct {
	Text     string  `json:"text"`
	ParentID *string `json:"parentId"`
}

func (cc *CommentController) PostComment(c *gin.Context) {
	var input postCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	// The write outlives the request if the client hangs up.
	ctx := context.WithoutCancel(c.Request.Context())
	comment, err := cc.Service.SubmitComment(ctx, c.Param("id"), utils.GetUser(c).Viewer(), input.Text, input.ParentID)
	switch {
	case errors.Is(err, thread.ErrSignInRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to comment", "success": false})
	case errors.Is(err, thread.ErrParentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Parent comment not found", "success": false})
	case errors.Is(err, thread.ErrNewsRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "News id is required", "success": false})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post comment", "success": false})
	case comment == nil:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusCreated, StandardResponse{
			Success: true,
			Data:    comment,
			Message: "Comment posted",
		})
	}
}

// LikeComment toggles the caller's like. With {"liked": bool} the flag from
// the client's last snapshot decides the direction; without it the current
// record does.
func (cc *CommentController) LikeComment(c *gin.Context) {
	var input struct {
		Liked *bool `json:"liked"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	viewer := utils.GetUser(c).Viewer()
	commentID := c.Param("id")

	var liked bool
	var err error
	if input.Liked != nil {
		err = cc.Service.ToggleLike(ctx, commentID, viewer, *input.Liked)
		liked = !*input.Liked
	} else {
		liked, err = cc.Service.ToggleLikeFresh(ctx, commentID, viewer)
	}

	switch {
	case errors.Is(err, thread.ErrSignInRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to like comments", "success": false})
	case errors.Is(err, thread.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found", "success": false})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update like", "success": false})
	default:
		c.JSON(http.StatusOK, StandardResponse{Success: true, Data: gin.H{"liked": liked}})
	}
}

// ListMyComments pages through the comments left on the editor's articles.
func (cc *CommentController) ListMyComments(c *gin.Context) {
	user := utils.GetUser(c)
	page, size := pageParams(c, 5)

	comments, total, err := cc.Store.ListOnNewsBy(c.Request.Context(), user.UserID, (page-1)*size, size)
	if err != nil {
		log.Printf("comments: list for editor %s: %v", user.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       comments,
		Pagination: newPagination(page, size, total),
	})
}

// DeleteComment removes a comment and its replies. Editors may only
// moderate comments on their own articles; admins may moderate any.
func (cc *CommentController) DeleteComment(c *gin.Context) {
	user := utils.GetUser(c)
	ctx := c.Request.Context()
	id := c.Param("id")

	comment, err := cc.Store.Get(ctx, id)
	if errors.Is(err, thread.ErrCommentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found", "success": false})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment", "success": false})
		return
	}

	if !user.HasRole(models.RoleAdmin) {
		var owned int64
		err := cc.DB.WithContext(ctx).Model(&models.News{}).
			Where("id::text = ? AND user_id = ?", comment.NewsID, user.UserID).
			Count(&owned).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment", "success": false})
			return
		}
		if owned == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only moderate comments on your own news", "success": false})
			return
		}
	}

	deleted, err := cc.Store.DeleteThread(ctx, comment.ID)
	if err != nil && !errors.Is(err, thread.ErrCommentNotFound) {
		log.Printf("comments: delete %s: %v", comment.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"deleted": deleted},
		Message: "Comment deleted successfully",
	})
}
