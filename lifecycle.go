package syringe

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Lifecycle specifies how long a resolved instance is reused.
type Lifecycle int

const (
	// Transient builds a new instance on every resolution.
	Transient Lifecycle = iota

	// Singleton builds one instance per registration. The instance lives in the
	// container that holds the registration, so every descendant container that
	// inherits the registration sees the same instance.
	Singleton

	// ResolutionScoped builds one instance per top-level Resolve or ResolveAll
	// call. Every dependency reached during that call shares it.
	ResolutionScoped

	// ContainerScoped builds one instance per resolving container.
	// A child container never reuses the instance of its parent.
	ContainerScoped
)

// String returns the string representation of the Lifecycle.
func (l Lifecycle) String() string {
	switch l {
	case Transient:
		return "Transient"
	case Singleton:
		return "Singleton"
	case ResolutionScoped:
		return "ResolutionScoped"
	case ContainerScoped:
		return "ContainerScoped"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

// IsValid checks if the lifecycle is valid.
func (l Lifecycle) IsValid() bool {
	return l >= Transient && l <= ContainerScoped
}

// MarshalText implements encoding.TextMarshaler.
func (l Lifecycle) MarshalText() ([]byte, error) {
	if !l.IsValid() {
		return nil, &LifecycleError{Value: int(l)}
	}

	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Names are matched case-insensitively.
func (l *Lifecycle) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "transient":
		*l = Transient
	case "singleton":
		*l = Singleton
	case "resolutionscoped", "resolution-scoped":
		*l = ResolutionScoped
	case "containerscoped", "container-scoped":
		*l = ContainerScoped
	default:
		return &LifecycleError{Value: string(text)}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l Lifecycle) MarshalJSON() ([]byte, error) {
	text, err := l.MarshalText()
	if err != nil {
		return nil, err
	}

	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Lifecycle) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	return l.UnmarshalText([]byte(s))
}

