package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kidcapital/server/internal/events"
)

// EventPersister adapts an EventRepository to events.EventPersister.
type EventPersister struct {
	repo     EventRepository
	timeout  time.Duration
	recorder WriteRecorder
}

// WriteRecorder counts write outcomes.
type WriteRecorder interface {
	RecordEventWrite(err error)
}

// NewEventPersister bounds each write by timeout.
func NewEventPersister(repo EventRepository, timeout time.Duration) *EventPersister {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &EventPersister{repo: repo, timeout: timeout}
}

// WithRecorder reports every write to r.
func (p *EventPersister) WithRecorder(r WriteRecorder) *EventPersister {
	p.recorder = r
	return p
}

// Append writes one activity log entry.
func (p *EventPersister) Append(event events.GameEvent) error {
	err := p.write(event)
	if p.recorder != nil {
		p.recorder.RecordEventWrite(err)
	}
	return err
}

func (p *EventPersister) write(event events.GameEvent) error {
	row, err := ToStorageEvent(event)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	return p.repo.Append(ctx, row)
}

// ToStorageEvent flattens a typed payload into a JSON map.
func ToStorageEvent(event events.GameEvent) (GameEvent, error) {
	row := GameEvent{
		ID:        event.ID,
		GameID:    event.GameID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		PlayerID:  event.PlayerID,
		Month:     event.Month,
		Message:   event.Message,
		Payload:   map[string]interface{}{},
	}
	if event.Payload == nil {
		return row, nil
	}
	raw, err := json.Marshal(event.Payload)
	if err != nil {
		return row, fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := json.Unmarshal(raw, &row.Payload); err != nil {
		return row, fmt.Errorf("failed to flatten payload: %w", err)
	}
	return row, nil
}
