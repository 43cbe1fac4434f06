// Package threadtest provides an in-memory comment store for tests.
package threadtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sabelo-news/api-go/models"
	"github.com/sabelo-news/api-go/thread"
)

// MemoryStore implements thread.Store and publishes every change to its
// broker, the way the database trigger does in production.
type MemoryStore struct {
	mu       sync.Mutex
	comments []models.Comment
	now      time.Time
	writes   int
	broker   *thread.Broker

	// FailWrites, when set, is returned by every write.
	FailWrites error
}

func NewMemoryStore(broker *thread.Broker) *MemoryStore {
	return &MemoryStore{
		now:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		broker: broker,
	}
}

// Seed stores comments as given, without counting writes.
func (m *MemoryStore) Seed(comments ...models.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range comments {
		c.Likes = append(pq.StringArray{}, c.Likes...)
		m.comments = append(m.comments, c)
	}
}

// Writes counts the successful and failed write attempts.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemoryStore) ListByNews(_ context.Context, newsID string) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Comment{}
	for _, c := range m.comments {
		if c.NewsID == newsID {
			c.Likes = append(pq.StringArray{}, c.Likes...)
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(id)
	if i < 0 {
		return nil, thread.ErrCommentNotFound
	}
	c := m.comments[i]
	c.Likes = append(pq.StringArray{}, c.Likes...)
	return &c, nil
}

func (m *MemoryStore) Create(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	m.writes++
	if m.FailWrites != nil {
		m.mu.Unlock()
		return m.FailWrites
	}
	m.now = m.now.Add(time.Second)
	c.ID = uuid.New().String()
	c.CreatedAt = m.now
	if c.Likes == nil {
		c.Likes = pq.StringArray{}
	}
	stored := *c
	stored.Likes = append(pq.StringArray{}, c.Likes...)
	m.comments = append(m.comments, stored)
	m.mu.Unlock()

	m.publish(c.NewsID)
	return nil
}

func (m *MemoryStore) AddLike(_ context.Context, id, accountID string) error {
	return m.updateLikes(id, func(c *models.Comment) {
		if !c.LikedBy(accountID) {
			c.Likes = append(c.Likes, accountID)
		}
	})
}

func (m *MemoryStore) RemoveLike(_ context.Context, id, accountID string) error {
	return m.updateLikes(id, func(c *models.Comment) {
		kept := pq.StringArray{}
		for _, l := range c.Likes {
			if l != accountID {
				kept = append(kept, l)
			}
		}
		c.Likes = kept
	})
}

func (m *MemoryStore) updateLikes(id string, apply func(*models.Comment)) error {
	m.mu.Lock()
	m.writes++
	if m.FailWrites != nil {
		m.mu.Unlock()
		return m.FailWrites
	}
	i := m.find(id)
	if i < 0 {
		m.mu.Unlock()
		return thread.ErrCommentNotFound
	}
	apply(&m.comments[i])
	newsID := m.comments[i].NewsID
	m.mu.Unlock()

	m.publish(newsID)
	return nil
}

func (m *MemoryStore) find(id string) int {
	for i := range m.comments {
		if m.comments[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MemoryStore) publish(newsID string) {
	if m.broker != nil {
		m.broker.Publish(newsID)
	}
}
