package session

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/mark3labs/stepper/internal/nats"
)

// Journal actions.
const (
	ActionCompleted   = "completed"
	ActionError       = "error"
	ActionSelect      = "select"
	ActionVeto        = "veto"
	ActionCancel      = "cancel"
	ActionReset       = "reset"
	ActionOrientation = "orientation"
	ActionSteps       = "steps"
	ActionStart       = "start"
)

// StepHistory aggregates what happened to one step during a run.
type StepHistory struct {
	Index       int    `json:"index" yaml:"index"`
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Visits      int    `json:"visits" yaml:"visits"`
	Completions int    `json:"completions" yaml:"completions"`
	Errors      int    `json:"errors" yaml:"errors"`
	Vetoes      int    `json:"vetoes" yaml:"vetoes"`
}

// History is the reduced view of a run's journal.
type History struct {
	Run          string               `json:"run" yaml:"run"`
	Events       int                  `json:"events" yaml:"events"`
	Steps        map[int]*StepHistory `json:"steps" yaml:"steps"`
	Actions      map[string]int       `json:"actions" yaml:"actions"`
	Vetoes       int                  `json:"vetoes" yaml:"vetoes"`
	LastSelected int                  `json:"last_selected" yaml:"last_selected"`
	Completed    bool                 `json:"completed" yaml:"completed"`
	Resets       int                  `json:"resets" yaml:"resets"`
	Cancels      int                  `json:"cancels" yaml:"cancels"`
	StartedAt    time.Time            `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	UpdatedAt    time.Time            `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// NewHistory returns an empty history for run.
func NewHistory(run string) *History {
	return &History{
		Run:          run,
		Steps:        make(map[int]*StepHistory),
		Actions:      make(map[string]int),
		LastSelected: -1,
	}
}

// Apply reduces one event into the history.
func (h *History) Apply(event Event) {
	var meta Meta
	if len(event.Meta) > 0 {
		_ = json.Unmarshal(event.Meta, &meta)
	}

	h.Events++
	if h.StartedAt.IsZero() || event.Timestamp.Before(h.StartedAt) {
		h.StartedAt = event.Timestamp
	}
	if event.Timestamp.After(h.UpdatedAt) {
		h.UpdatedAt = event.Timestamp
	}

	switch event.Type {
	case nats.EventTypeStep:
		st := h.step(meta)
		switch event.Action {
		case ActionCompleted:
			st.Completions++
		case ActionError:
			if meta.Value {
				st.Errors++
			}
		}

	case nats.EventTypeSelection:
		switch event.Action {
		case ActionSelect:
			h.LastSelected = meta.Index
			if meta.Index >= 0 {
				h.step(meta).Visits++
			}
		case ActionVeto:
			h.Vetoes++
			h.step(meta).Vetoes++
		}

	case nats.EventTypeAction:
		h.Actions[event.Action]++

	case nats.EventTypeControl:
		switch event.Action {
		case ActionStart:
			h.LastSelected = meta.Index
			if meta.Index >= 0 {
				h.step(meta).Visits++
			}
		case ActionReset:
			h.Resets++
		case ActionCancel:
			h.Cancels++
		case ActionCompleted:
			h.Completed = meta.Value
		}
	}
}

func (h *History) step(meta Meta) *StepHistory {
	st, ok := h.Steps[meta.Index]
	if !ok {
		st = &StepHistory{Index: meta.Index}
		h.Steps[meta.Index] = st
	}
	if meta.StepID != "" {
		st.ID = meta.StepID
	}
	return st
}

// SortedSteps returns the per-step entries ordered by index.
func (h *History) SortedSteps() []*StepHistory {
	steps := make([]*StepHistory, 0, len(h.Steps))
	for _, st := range h.Steps {
		steps = append(steps, st)
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].Index < steps[j].Index })
	return steps
}
