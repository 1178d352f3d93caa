package models

// Script timeout bounds (milliseconds).
const (
	MinScriptTimeoutMS     = 1000
	MaxScriptTimeoutMS     = 120000
	DefaultScriptTimeoutMS = 10000
)

// ScriptConfig describes how to invoke a card's python script.
type ScriptConfig struct {
	Path       string   `json:"path"`
	Args       []string `json:"args,omitempty"`
	PythonPath string   `json:"python_path,omitempty"`
	TimeoutMS  int      `json:"timeout_ms"`
}

// ScriptResult is the outcome of one script execution.
type ScriptResult struct {
	OK         bool
	Stdout     string
	Stderr     string
	ExitCode   *int // nil when the process was killed before exiting
	TimedOut   bool
	DurationMS int64
}

// ScriptValidation reports whether a script and an interpreter for it are
// usable.
type ScriptValidation struct {
	Valid          bool
	Message        string
	ResolvedPython string
}
