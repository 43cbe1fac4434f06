// Package store persists comments in Postgres and relays the database's
// change notifications to live watchers.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sabelo-news/api-go/models"
	"github.com/sabelo-news/api-go/thread"
	"gorm.io/gorm"
)

// CommentStore implements thread.Store on the comments table.
type CommentStore struct {
	DB *gorm.DB
}

func NewCommentStore(db *gorm.DB) *CommentStore {
	return &CommentStore{DB: db}
}

func (s *CommentStore) ListByNews(ctx context.Context, newsID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.DB.WithContext(ctx).
		Where("news_id = ?", newsID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentStore) Get(ctx context.Context, id string) (*models.Comment, error) {
	if !validID(id) {
		return nil, thread.ErrCommentNotFound
	}
	var comment models.Comment
	err := s.DB.WithContext(ctx).First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, thread.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// Create inserts c and lets Postgres fill in the id and created_at.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) error {
	if c.Likes == nil {
		c.Likes = pq.StringArray{}
	}
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (s *CommentStore) AddLike(ctx context.Context, id, accountID string) error {
	if !validID(id) {
		return thread.ErrCommentNotFound
	}
	result := s.DB.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ? AND NOT (? = ANY(likes))", id, accountID).
		Update("likes", gorm.Expr("array_append(likes, ?)", accountID))
	if result.Error != nil {
		return fmt.Errorf("add like: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either already liked or gone.
		return s.exists(ctx, id)
	}
	return nil
}

func (s *CommentStore) RemoveLike(ctx context.Context, id, accountID string) error {
	if !validID(id) {
		return thread.ErrCommentNotFound
	}
	result := s.DB.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		Update("likes", gorm.Expr("array_remove(likes, ?)", accountID))
	if result.Error != nil {
		return fmt.Errorf("remove like: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return thread.ErrCommentNotFound
	}
	return nil
}

// ListOnNewsBy pages through the comments on every article written by
// authorID, newest first.
func (s *CommentStore) ListOnNewsBy(ctx context.Context, authorID string, offset, limit int) ([]models.Comment, int64, error) {
	query := s.DB.WithContext(ctx).Model(&models.Comment{}).
		Where("news_id IN (?)", s.DB.Model(&models.News{}).Select("id::text").Where("user_id = ?", authorID)).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	comments := []models.Comment{}
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&comments).Error; err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

// LatestOnNewsBy returns the newest comment on authorID's articles, or nil.
func (s *CommentStore) LatestOnNewsBy(ctx context.Context, authorID string) (*models.Comment, error) {
	comments, _, err := s.ListOnNewsBy(ctx, authorID, 0, 1)
	if err != nil || len(comments) == 0 {
		return nil, err
	}
	return &comments[0], nil
}

const deleteThreadSQL = `
WITH RECURSIVE thread AS (
	SELECT id FROM comments WHERE id = ?
	UNION ALL
	SELECT c.id FROM comments c JOIN thread t ON c.parent_id = t.id
)
DELETE FROM comments WHERE id IN (SELECT id FROM thread)`

// DeleteThread removes a comment together with all of its replies and
// returns how many rows went.
func (s *CommentStore) DeleteThread(ctx context.Context, id string) (int64, error) {
	if !validID(id) {
		return 0, thread.ErrCommentNotFound
	}
	result := s.DB.WithContext(ctx).Exec(deleteThreadSQL, id)
	if result.Error != nil {
		return 0, fmt.Errorf("delete comment thread: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, thread.ErrCommentNotFound
	}
	return result.RowsAffected, nil
}

// DeleteNews removes an article and its comments in one transaction.
func DeleteNews(ctx context.Context, db *gorm.DB, newsID string) error {
	if !validID(newsID) {
		return gorm.ErrRecordNotFound
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("news_id = ?", newsID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments of %s: %w", newsID, err)
		}
		result := tx.Delete(&models.News{}, "id = ?", newsID)
		if result.Error != nil {
			return fmt.Errorf("delete news %s: %w", newsID, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (s *CommentStore) exists(ctx context.Context, id string) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("count comment: %w", err)
	}
	if count == 0 {
		return thread.ErrCommentNotFound
	}
	return nil
}

// validID keeps malformed ids away from the uuid column.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
