package ledger

import "sync"

// TopicFinancialDataChange is published after every successful mutation so
// unrelated observers (dashboard caches) can decide to refetch.
const TopicFinancialDataChange = "financial-data-change"

// Notifier is a small in-process publish/subscribe hub. Publishes are
// one-shot: subscribers active at emission time receive the topic, late
// subscribers miss it, and a slow subscriber's full channel is skipped
// rather than blocking the publisher.
type Notifier struct {
	mu   sync.Mutex
	subs map[int]chan string
	next int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan string)}
}

// Subscribe returns a channel of topic names and a cancel func. The channel
// is buffered; drain it promptly or events are dropped.
func (n *Notifier) Subscribe() (<-chan string, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	ch := make(chan string, 8)
	n.subs[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers topic to all current subscribers without blocking.
func (n *Notifier) Publish(topic string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- topic:
		default:
		}
	}
}
