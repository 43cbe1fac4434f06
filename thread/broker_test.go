package thread_test

import (
	"testing"

	"github.com/sabelo-news/api-go/thread"
	"github.com/stretchr/testify/assert"
)

func pending(ch <-chan struct{}) int {
	n := 0
	for {
		select {
		case <-ch:
			n++
		default:
			return n
		}
	}
}

func TestBrokerCoalescesSignals(t *testing.T) {
	b := thread.NewBroker()
	ch, unsubscribe := b.Subscribe("A")
	defer unsubscribe()

	b.Publish("A")
	b.Publish("A")
	b.Publish("A")

	assert.Equal(t, 1, pending(ch))
}

func TestBrokerRoutesByArticle(t *testing.T) {
	b := thread.NewBroker()
	a, unsubA := b.Subscribe("A")
	defer unsubA()
	other, unsubB := b.Subscribe("B")
	defer unsubB()

	b.Publish("A")

	assert.Equal(t, 1, pending(a))
	assert.Equal(t, 0, pending(other))

	b.PublishAll()
	assert.Equal(t, 1, pending(a))
	assert.Equal(t, 1, pending(other))
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := thread.NewBroker()
	ch, unsubscribe := b.Subscribe("A")
	_, unsubOther := b.Subscribe("A")
	assert.Equal(t, 2, b.Subscribers("A"))

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 1, b.Subscribers("A"))

	b.Publish("A")
	assert.Equal(t, 0, pending(ch))

	unsubOther()
	assert.Equal(t, 0, b.Subscribers("A"))
}
