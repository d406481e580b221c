// Package events fans lesson status events out to in-process subscribers.
package events

import (
	"context"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"lesson-generator/dto"
	"sync"
)

const subscriberBuffer = 4

type Hub struct {
	mu            sync.RWMutex
	subscriptions map[uuid.UUID]map[chan dto.LessonEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{subscriptions: make(map[uuid.UUID]map[chan dto.LessonEvent]struct{})}
}

// Subscribe returns a channel receiving events for lessonID. The returned
// function must be called to release the subscription; it closes the channel.
func (h *Hub) Subscribe(lessonID uuid.UUID) (<-chan dto.LessonEvent, func()) {
	ch := make(chan dto.LessonEvent, subscriberBuffer)

	h.mu.Lock()
	subs, ok := h.subscriptions[lessonID]
	if !ok {
		subs = make(map[chan dto.LessonEvent]struct{})
		h.subscriptions[lessonID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscriptions[lessonID], ch)
			if len(h.subscriptions[lessonID]) == 0 {
				delete(h.subscriptions, lessonID)
			}
			close(ch)
		})
	}
}

// Publish delivers event without blocking; a subscriber with a full buffer misses it.
func (h *Hub) Publish(ctx context.Context, event dto.LessonEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscriptions[event.LessonId] {
		select {
		case ch <- event:
		default:
			zerolog.Ctx(ctx).Warn().Str("lesson_id", event.LessonId.String()).Msg("dropping lesson event for slow subscriber")
		}
	}
	return nil
}

func (h *Hub) Subscribers(lessonID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[lessonID])
}
