package hooks

// HookConfig defines a single hook's configuration.
type HookConfig struct {
	Command string `yaml:"command" json:"command"`
	Timeout int    `yaml:"timeout,omitempty" json:"timeout,omitempty"` // seconds, default 30
}

// FlowHooks are the lifecycle hooks a flow may declare.
type FlowHooks struct {
	OnComplete *HookConfig `yaml:"on_complete,omitempty"`
	OnCancel   *HookConfig `yaml:"on_cancel,omitempty"`
}

// Variables holds template variables that can be expanded in hook commands.
type Variables struct {
	Flow  string // Flow title
	Run   string // Run name
	Step  string // Step ID
	Index string // Step index, zero-based
}

// Result is the outcome of a hook command.
// A failing or timed-out command is a result, not an error.
type Result struct {
	Passed   bool   `json:"passed" yaml:"passed"`
	TimedOut bool   `json:"timed_out,omitempty" yaml:"timed_out,omitempty"`
	Output   string `json:"output,omitempty" yaml:"output,omitempty"`
}

// DefaultTimeout is the default timeout for hook execution in seconds.
const DefaultTimeout = 30
