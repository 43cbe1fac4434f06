package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/sabelo-news/api-go/thread"
)

// CommentsChannel is the NOTIFY channel fed by the comments trigger. The
// payload is the news id of the changed row.
const CommentsChannel = "comments_changed"

const (
	minReconnect = 10 * time.Second
	maxReconnect = time.Minute
	pingInterval = 90 * time.Second
)

// Listen subscribes to CommentsChannel and forwards every notification to
// broker until ctx is done. After a reconnect every watcher is signalled,
// since notifications sent while disconnected are lost.
func Listen(ctx context.Context, dsn string, broker *thread.Broker) error {
	report := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("store: listener event %d: %v", ev, err)
		}
	}
	listener := pq.NewListener(dsn, minReconnect, maxReconnect, report)
	if err := listener.Listen(CommentsChannel); err != nil {
		listener.Close()
		return fmt.Errorf("listen %s: %w", CommentsChannel, err)
	}

	pinging := make(chan struct{}, 1)
	go func() {
		defer listener.Close()
		ping := time.NewTicker(pingInterval)
		defer ping.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case n := <-listener.Notify:
				if n == nil {
					broker.PublishAll()
					continue
				}
				broker.Publish(n.Extra)
			case <-ping.C:
				if !startPing(pinging, listener.Ping) {
					log.Printf("store: listener ping still pending, skipping")
				}
			}
		}
	}()
	return nil
}

// startPing runs ping in the background unless the previous one holding
// busy has not returned yet. A dead connection can hold a ping for a long
// time.
func startPing(busy chan struct{}, ping func() error) bool {
	select {
	case busy <- struct{}{}:
	default:
		return false
	}
	go func() {
		defer func() { <-busy }()
		if err := ping(); err != nil {
			log.Printf("store: listener ping: %v", err)
		}
	}()
	return true
}
