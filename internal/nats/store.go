package nats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName    = "stepper_events"
	subjectPrefix = "stepper"
	retention     = 30 * 24 * time.Hour

	// Journal event types, the last subject token.
	EventTypeStep      = "step"
	EventTypeSelection = "selection"
	EventTypeAction    = "action"
	EventTypeControl   = "control"
)

// SubjectForRun matches every event of a run, e.g. "stepper.signup.>".
func SubjectForRun(run string) string {
	return fmt.Sprintf("%s.%s.>", subjectPrefix, SanitizeToken(run))
}

// SubjectForEvent is the subject one event type of a run is published on.
func SubjectForEvent(run, eventType string) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, SanitizeToken(run), eventType)
}

// SanitizeToken makes s usable as a single subject token. Dots, wildcards and
// whitespace would otherwise split or widen the subject.
func SanitizeToken(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, s)
}

// SetupStream creates or updates the journal stream covering all runs.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{subjectPrefix + ".>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   retention,
	})
}

// RunConsumer creates an ephemeral consumer replaying one run from the start.
func RunConsumer(ctx context.Context, stream jetstream.Stream, run string) (jetstream.Consumer, error) {
	return stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject:     SubjectForRun(run),
		DeliverPolicy:     jetstream.DeliverAllPolicy,
		AckPolicy:         jetstream.AckExplicitPolicy,
		InactiveThreshold: time.Minute,
	})
}

// Runs lists the run names that have events in the stream.
func Runs(ctx context.Context, stream jetstream.Stream) ([]string, error) {
	info, err := stream.Info(ctx, jetstream.WithSubjectFilter(subjectPrefix+".>"))
	if err != nil {
		return nil, fmt.Errorf("reading stream info: %w", err)
	}

	seen := make(map[string]bool)
	var runs []string
	for subject := range info.State.Subjects {
		parts := strings.Split(subject, ".")
		if len(parts) != 3 || seen[parts[1]] {
			continue
		}
		seen[parts[1]] = true
		runs = append(runs, parts[1])
	}
	return runs, nil
}
