// Package events carries domain events out of the workflow engine. The
// engine publishes exactly one event per successful transition and does
// not know who subscribes.
package events

import (
	"time"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/logger"
)

// Event describes one committed status transition.
type Event struct {
	AuditID    uint      `json:"audit_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	ActorID    uint      `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher receives committed transition events. Publish is called after
// the storage transaction commits, never inside it.
type Publisher interface {
	Publish(Event)
}

// LogPublisher writes every event to the application log.
type LogPublisher struct{}

func (LogPublisher) Publish(e Event) {
	logger.WithFields(map[string]interface{}{
		"audit_id":   e.AuditID,
		"old_status": e.OldStatus,
		"new_status": e.NewStatus,
		"actor_id":   e.ActorID,
	}).Info("audit status changed")
}

// Fanout forwards each event to every registered subscriber in order.
type Fanout struct {
	subscribers []func(Event)
}

func NewFanout() *Fanout {
	return &Fanout{}
}

// Subscribe registers a handler. Not safe for concurrent use with
// Publish; register everything during startup.
func (f *Fanout) Subscribe(fn func(Event)) {
	f.subscribers = append(f.subscribers, fn)
}

func (f *Fanout) Publish(e Event) {
	for _, fn := range f.subscribers {
		fn(e)
	}
}
