package thread

import (
	"context"

	"github.com/sabelo-news/api-go/models"
)

// Store is the document store holding comments.
type Store interface {
	// ListByNews returns every comment of an article, newest first.
	ListByNews(ctx context.Context, newsID string) ([]models.Comment, error)
	// Get returns ErrCommentNotFound when id is unknown.
	Get(ctx context.Context, id string) (*models.Comment, error)
	// Create assigns c.ID and c.CreatedAt.
	Create(ctx context.Context, c *models.Comment) error
	// AddLike and RemoveLike are set-union and set-difference on likes.
	// Both return ErrCommentNotFound when id is unknown.
	AddLike(ctx context.Context, id, accountID string) error
	RemoveLike(ctx context.Context, id, accountID string) error
}

// Notifier signals that the comment set of an article changed.
type Notifier interface {
	Subscribe(newsID string) (changes <-chan struct{}, unsubscribe func())
}
