package notifications

import (
	"context"
	"fmt"
	"sync"

	"github.com/ricemandi/cart-service/internal/cart"
	"github.com/ricemandi/cart-service/pkg/logger"
)

// Service turns cart events into the user-facing confirmation messages the
// storefront shows ("X added to cart"). It subscribes to the engine's event
// stream so the engine itself stays free of presentation concerns.
type Service interface {
	cart.Emitter
	// Recent returns the messages emitted for a session, newest last.
	Recent(sessionID string) []Message
}

// Message is one rendered notification.
type Message struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type service struct {
	logg *logger.Logger

	mu     sync.Mutex
	recent map[string][]Message
}

// NewService builds the notification subscriber.
func NewService(logg *logger.Logger) Service {
	return &service{
		logg:   logg,
		recent: make(map[string][]Message),
	}
}

// keep a short tail per session; the storefront only shows the last few
const recentLimit = 20

func (s *service) Emit(event cart.Event) {
	text := render(event)
	if text == "" {
		return
	}

	msg := Message{SessionID: event.SessionID, Text: text}

	s.mu.Lock()
	tail := append(s.recent[event.SessionID], msg)
	if len(tail) > recentLimit {
		tail = tail[len(tail)-recentLimit:]
	}
	s.recent[event.SessionID] = tail
	s.mu.Unlock()

	if s.logg != nil {
		ctx := s.logg.WithFields(context.Background(), map[string]any{
			"session_id": event.SessionID,
			"line_id":    event.LineID,
			"event":      string(event.Kind),
		})
		s.logg.Info(ctx, text)
	}
}

func (s *service) Recent(sessionID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	tail := s.recent[sessionID]
	out := make([]Message, len(tail))
	copy(out, tail)
	return out
}

func render(event cart.Event) string {
	name := event.Name
	if name == "" {
		name = event.LineID
	}
	switch event.Kind {
	case cart.EventItemAdded:
		return fmt.Sprintf("%s added to cart", name)
	case cart.EventItemRemoved:
		return fmt.Sprintf("%s removed from cart", name)
	default:
		return ""
	}
}
