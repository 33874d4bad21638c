// Package stream provides the in-process change hub behind live
// subscriptions. Writers publish a signal for a topic; subscribers requery
// the database when signalled. Signals carry no payload and coalesce, so a
// slow subscriber can never stall a publisher.
package stream

import "sync"

// Topics.
const (
	TopicJobs = "jobs"
)

// InboxTopic names the notification stream for one recipient.
func InboxTopic(recipientID string) string {
	return "inbox/" + recipientID
}

// ChatTopic names the message stream for one job.
func ChatTopic(jobID string) string {
	return "chat/" + jobID
}

// Hub fans change signals out to subscribers by topic.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[int]chan struct{}
	next int
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan struct{})}
}

// Subscribe registers interest in a topic. The returned channel receives a
// coalesced signal whenever the topic is published. The cancel func must be
// called when the subscriber stops observing; a leaked subscription is a
// standing resource.
func (h *Hub) Subscribe(topic string) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan struct{}, 1)
	id := h.next
	h.next++

	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]chan struct{})
	}
	h.subs[topic][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if subs, ok := h.subs[topic]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(h.subs, topic)
			}
		}
	}
	return ch, cancel
}

// Publish signals every subscriber of the topic. Non-blocking: a subscriber
// that already has a pending signal is skipped.
func (h *Hub) Publish(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// SubscriberCount reports how many subscribers a topic currently has.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[topic])
}
