// Package session keeps the journal of a stepper run as events in JetStream.
// The journal is an audit trail; a run is never restored from it.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/stepper/internal/logger"
	"github.com/mark3labs/stepper/internal/nats"
	"github.com/nats-io/nats.go/jetstream"
)

// Event is one journal entry.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Run       string          `json:"run"`
	Type      string          `json:"type"`   // step, selection, action, control
	Action    string          `json:"action"` // completed, select, veto, reset, ...
	Meta      json.RawMessage `json:"meta,omitempty"`
	Data      string          `json:"data,omitempty"`
}

// Meta is the payload carried by every journal event.
type Meta struct {
	Index    int    `json:"index"`
	Previous int    `json:"previous,omitempty"`
	StepID   string `json:"step_id,omitempty"`
	Value    bool   `json:"value,omitempty"`
}

// Store publishes and replays journal events.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewStore creates a Store over an existing stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{js: js, stream: stream}
}

// Publish appends event to the journal on stepper.{run}.{type}.
func (s *Store) Publish(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Run, event.Type)
	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}

	logger.Debug("Journal: run=%s type=%s action=%s seq=%d", event.Run, event.Type, event.Action, ack.Sequence)
	return ack, nil
}

// Runs lists the runs recorded in the journal.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	return nats.Runs(ctx, s.stream)
}

// Events replays every event of a run in publish order. Malformed entries are
// skipped with a warning.
func (s *Store) Events(ctx context.Context, run string) ([]Event, error) {
	consumer, err := nats.RunConsumer(ctx, s.stream, run)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	const batchSize = 1000
	var (
		events    []Event
		malformed int
	)
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				_ = msg.Ack()
				continue
			}
			if event.ID == "" {
				if meta, err := msg.Metadata(); err == nil {
					event.ID = fmt.Sprintf("%d", meta.Sequence.Stream)
				}
			}
			events = append(events, event)
			_ = msg.Ack()
		}

		if count < batchSize {
			break
		}
	}

	if malformed > 0 {
		logger.Warn("Skipped %d malformed journal events for run %s", malformed, run)
	}
	return events, nil
}

// LoadHistory replays a run and reduces it into a History.
func (s *Store) LoadHistory(ctx context.Context, run string) (*History, error) {
	events, err := s.Events(ctx, run)
	if err != nil {
		return nil, err
	}
	h := NewHistory(run)
	for _, e := range events {
		h.Apply(e)
	}
	logger.Debug("History loaded for %s: %d events", run, h.Events)
	return h, nil
}
