package thread

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"
	"github.com/sabelo-news/api-go/models"
)

var (
	ErrSignInRequired  = errors.New("sign in required")
	ErrCommentNotFound = errors.New("comment not found")
	ErrParentNotFound  = errors.New("parent comment not found")
	ErrNewsRequired    = errors.New("news id required")
)

// Service runs the comment writes and the live forest of an article. It
// keeps no copy of the comments: every forest is rebuilt from what the
// store returns.
type Service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// Forest loads the current comments of an article and builds the forest.
func (s *Service) Forest(ctx context.Context, newsID string, viewer *Viewer) ([]*Node, error) {
	comments, err := s.store.ListByNews(ctx, newsID)
	if err != nil {
		return nil, fmt.Errorf("load comments for %s: %w", newsID, err)
	}
	return BuildForest(comments, viewer), nil
}

// SubmitComment posts a root comment on newsID, or a reply when parentID is
// set. Blank text is ignored: nothing is written and both results are nil.
// A reply may leave newsID empty and takes the article of its parent.
// The new comment is not added to any forest here; watchers see it once the
// store reports the change.
func (s *Service) SubmitComment(ctx context.Context, newsID string, viewer *Viewer, text string, parentID *string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if viewer == nil {
		return nil, ErrSignInRequired
	}
	isReply := parentID != nil && *parentID != ""
	if !isReply && strings.TrimSpace(newsID) == "" {
		return nil, ErrNewsRequired
	}

	comment := &models.Comment{
		NewsID: newsID,
		User:   viewer.displayName(),
		UserID: viewer.AccountID,
		Text:   text,
		Likes:  pq.StringArray{},
	}

	if isReply {
		parent, err := s.store.Get(ctx, *parentID)
		if errors.Is(err, ErrCommentNotFound) {
			return nil, ErrParentNotFound
		}
		if err != nil {
			log.Printf("thread: load parent %s: %v", *parentID, err)
			return nil, fmt.Errorf("load parent comment: %w", err)
		}
		if newsID != "" && parent.NewsID != newsID {
			return nil, ErrParentNotFound
		}
		id := parent.ID
		comment.NewsID = parent.NewsID
		comment.ParentID = &id
	}

	if err := s.store.Create(ctx, comment); err != nil {
		log.Printf("thread: create comment on %s by %s: %v", comment.NewsID, viewer.AccountID, err)
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// ToggleLike removes the viewer from the likes of commentID when
// currentlyLiked is true and adds it otherwise. currentlyLiked comes from the
// caller's last snapshot and is trusted as is.
func (s *Service) ToggleLike(ctx context.Context, commentID string, viewer *Viewer, currentlyLiked bool) error {
	if viewer == nil {
		return ErrSignInRequired
	}

	var err error
	if currentlyLiked {
		err = s.store.RemoveLike(ctx, commentID, viewer.AccountID)
	} else {
		err = s.store.AddLike(ctx, commentID, viewer.AccountID)
	}
	if errors.Is(err, ErrCommentNotFound) {
		return err
	}
	if err != nil {
		log.Printf("thread: toggle like on %s by %s: %v", commentID, viewer.AccountID, err)
		return fmt.Errorf("toggle like: %w", err)
	}
	return nil
}

// ToggleLikeFresh reads the current likes of commentID instead of trusting
// a flag from an older snapshot, then toggles. It returns the new state.
func (s *Service) ToggleLikeFresh(ctx context.Context, commentID string, viewer *Viewer) (bool, error) {
	if viewer == nil {
		return false, ErrSignInRequired
	}
	comment, err := s.store.Get(ctx, commentID)
	if err != nil {
		if !errors.Is(err, ErrCommentNotFound) {
			log.Printf("thread: load comment %s: %v", commentID, err)
		}
		return false, err
	}
	liked := comment.LikedBy(viewer.AccountID)
	if err := s.ToggleLike(ctx, commentID, viewer, liked); err != nil {
		return liked, err
	}
	return !liked, nil
}

// Watch calls fn with the forest of newsID right away and again after every
// change, until ctx is done. fn runs on the calling goroutine. Only the
// first load can fail Watch; later load errors are logged and the previous
// forest stays current until the next change.
func (s *Service) Watch(ctx context.Context, newsID string, viewer *Viewer, fn func([]*Node)) error {
	changes, unsubscribe := s.notifier.Subscribe(newsID)
	defer unsubscribe()

	forest, err := s.Forest(ctx, newsID, viewer)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	fn(forest)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
		}
		forest, err := s.Forest(ctx, newsID, viewer)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("thread: refresh %s: %v", newsID, err)
			continue
		}
		fn(forest)
	}
}
