package session

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/stepper/internal/logger"
	"github.com/mark3labs/stepper/internal/nats"
	"github.com/mark3labs/stepper/internal/stepper"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher appends journal events.
type Publisher interface {
	Publish(ctx context.Context, event Event) (*jetstream.PubAck, error)
}

// Recorder writes a stepper's notifications to the journal.
type Recorder struct {
	pub Publisher
	run string
}

// NewRecorder creates a recorder publishing under run.
func NewRecorder(pub Publisher, run string) *Recorder {
	return &Recorder{pub: pub, run: run}
}

// Run returns the run name events are recorded under.
func (r *Recorder) Run() string { return r.run }

// Attach records a start event for the current selection and then every
// event s emits. The returned func detaches the recorder.
func (r *Recorder) Attach(ctx context.Context, s *stepper.Stepper) func() {
	r.publish(ctx, Event{
		Run:    r.run,
		Type:   nats.EventTypeControl,
		Action: ActionStart,
		Meta:   encodeMeta(Meta{Index: s.Selected(), StepID: stepID(s, s.Selected())}),
		Data:   "run started",
	})

	return s.Subscribe(func(e stepper.Event) {
		if event, ok := Translate(r.run, s, e); ok {
			r.publish(ctx, event)
		}
	})
}

func (r *Recorder) publish(ctx context.Context, event Event) {
	if _, err := r.pub.Publish(ctx, event); err != nil {
		// The journal never blocks the stepper
		logger.Warn("Journal publish failed: %v", err)
	}
}

// Translate maps a stepper event to a journal event. It reports false for
// events the journal does not keep.
func Translate(run string, s *stepper.Stepper, e stepper.Event) (Event, bool) {
	meta := Meta{Index: e.Index, StepID: stepID(s, e.Index), Value: e.Value}
	event := Event{Run: run}

	switch e.Type {
	case stepper.EventStepCompleted:
		event.Type, event.Action = nats.EventTypeStep, ActionCompleted
	case stepper.EventStepError:
		event.Type, event.Action = nats.EventTypeStep, ActionError
	case stepper.EventSelectedChanged:
		event.Type, event.Action = nats.EventTypeSelection, ActionSelect
		meta.Previous = e.Previous
	case stepper.EventActivationVetoed:
		event.Type, event.Action = nats.EventTypeSelection, ActionVeto
	case stepper.EventAction:
		event.Type, event.Action = nats.EventTypeAction, e.Action
	case stepper.EventCancel:
		event.Type, event.Action = nats.EventTypeControl, ActionCancel
	case stepper.EventReset:
		event.Type, event.Action = nats.EventTypeControl, ActionReset
	case stepper.EventOrientationChanged:
		event.Type, event.Action = nats.EventTypeControl, ActionOrientation
	case stepper.EventCompletedChanged:
		event.Type, event.Action = nats.EventTypeControl, ActionCompleted
	case stepper.EventStepsChanged:
		event.Type, event.Action = nats.EventTypeControl, ActionSteps
		event.Data = stepCount(s)
	default:
		return Event{}, false
	}

	event.Meta = encodeMeta(meta)
	return event, true
}

func stepID(s *stepper.Stepper, index int) string {
	if st := s.Step(index); st != nil {
		return st.ID
	}
	return ""
}

func stepCount(s *stepper.Stepper) string {
	data, _ := json.Marshal(map[string]int{"steps": s.Len()})
	return string(data)
}

func encodeMeta(m Meta) json.RawMessage {
	data, _ := json.Marshal(m)
	return data
}
