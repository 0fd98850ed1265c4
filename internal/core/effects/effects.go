// Package effects defines effect types as data structures representing I/O operations.
// Planners in core return effects; the app layer is the only place they run.
package effects

// Effect is the base interface for all effects.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// PersistEffect represents a registry persistence operation.
type PersistEffect struct {
	Entity    string // "feature_project", "feature_file"
	Operation string // "create"
	Data      any
}

func (e PersistEffect) EffectType() string { return "persist" }

// FileEffect represents a file system operation.
type FileEffect struct {
	Operation string // "write", "remove"
	Path      string
	Content   []byte // For write operations
	Mode      uint32 // File permissions
}

func (e FileEffect) EffectType() string { return "file" }

// InjectEffect splices lines into a manifest file before its marker line.
type InjectEffect struct {
	Kind       string // "registration", "navigation"
	TargetFile string
	Marker     string
	Lines      []string
}

func (e InjectEffect) EffectType() string { return "inject" }
