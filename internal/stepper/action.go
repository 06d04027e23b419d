package stepper

import "strings"

// ActionKind identifies how the stepper handles an action intent.
type ActionKind int

const (
	ActionCustom   ActionKind = iota // Author-defined name, no built-in handler
	ActionContinue                   // Complete the step and advance
	ActionBack                       // Return to the previous step
	ActionSkip                       // Advance without completing
	ActionCancel                     // Extension point, no state change
)

// Built-in action names.
const (
	NameContinue = "continue"
	NameBack     = "back"
	NameSkip     = "skip"
	NameCancel   = "cancel"
)

// String returns the canonical action name for built-in kinds.
func (k ActionKind) String() string {
	switch k {
	case ActionContinue:
		return NameContinue
	case ActionBack:
		return NameBack
	case ActionSkip:
		return NameSkip
	case ActionCancel:
		return NameCancel
	default:
		return "custom"
	}
}

// ParseAction maps an action name to its kind. Matching is case-insensitive.
// Unknown names map to ActionCustom.
func ParseAction(name string) ActionKind {
	switch normalizeName(name) {
	case NameContinue:
		return ActionContinue
	case NameBack:
		return ActionBack
	case NameSkip:
		return ActionSkip
	case NameCancel:
		return ActionCancel
	default:
		return ActionCustom
	}
}

// Action is a named control available on a step.
type Action struct {
	Name     string `json:"name" yaml:"name"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Kind returns the action's kind.
func (a Action) Kind() ActionKind {
	return ParseAction(a.Name)
}

// Label returns the title if set, otherwise the capitalized name.
func (a Action) Label() string {
	if a.Title != "" {
		return a.Title
	}
	name := normalizeName(a.Name)
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Intent is a user's request to perform an action on a step.
type Intent struct {
	Action string
	Step   *Step
}

// Kind returns the kind of the requested action.
func (i Intent) Kind() ActionKind {
	return ParseAction(i.Action)
}

// defaultActions computes the action set assigned to a step at discovery.
func defaultActions(index int, linear, optional bool) []Action {
	actions := []Action{
		{Name: NameContinue},
		{Name: NameCancel},
	}
	if !linear {
		actions = append(actions, Action{Name: NameBack, Disabled: index == 0})
	} else if optional {
		actions = append(actions, Action{Name: NameSkip})
	}
	return actions
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
