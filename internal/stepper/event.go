package stepper

// EventType names a stepper notification.
type EventType string

const (
	EventStepsChanged       EventType = "steps_changed"
	EventSelectedChanged    EventType = "selected_changed"
	EventStepCompleted      EventType = "step_completed"
	EventStepError          EventType = "step_error"
	EventAction             EventType = "action"
	EventCancel             EventType = "cancel"
	EventActivationVetoed   EventType = "activation_vetoed"
	EventReset              EventType = "reset"
	EventOrientationChanged EventType = "orientation_changed"
	EventCompletedChanged   EventType = "completed_changed"
)

// Event is delivered to subscribers after the stepper's state has changed.
//
// Index is the step the event concerns (-1 when none). Previous carries the
// prior selection for EventSelectedChanged. Value carries the new boolean
// for EventStepError, EventOrientationChanged and EventCompletedChanged.
type Event struct {
	Type     EventType
	Index    int
	Previous int
	Action   string
	Value    bool
}

// Handler receives stepper events.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Subscribe registers a handler. Handlers run synchronously, in registration
// order, on the caller's goroutine. The returned func removes the handler.
func (s *Stepper) Subscribe(h Handler) func() {
	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscription{id: id, handler: h})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Stepper) emit(e Event) {
	// Copy so a handler may unsubscribe while we iterate
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	for _, sub := range subs {
		sub.handler(e)
	}
}
