package thread

import "sync"

// Broker fans change notifications out to the subscribers of each article.
// Notifications are coalesced: a subscriber that has not consumed the
// previous signal gets only one.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[chan struct{}]struct{})}
}

func (b *Broker) Subscribe(newsID string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	if b.subs[newsID] == nil {
		b.subs[newsID] = make(map[chan struct{}]struct{})
	}
	b.subs[newsID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[newsID], ch)
			if len(b.subs[newsID]) == 0 {
				delete(b.subs, newsID)
			}
		})
	}
	return ch, unsubscribe
}

// Publish signals every subscriber of newsID without blocking.
func (b *Broker) Publish(newsID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[newsID] {
		signal(ch)
	}
}

// PublishAll signals every subscriber, used when notifications may have
// been lost.
func (b *Broker) PublishAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, set := range b.subs {
		for ch := range set {
			signal(ch)
		}
	}
}

// Subscribers returns how many watchers newsID has.
func (b *Broker) Subscribers(newsID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[newsID])
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
