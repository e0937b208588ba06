package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrConfig is matched by every error produced while resolving configuration
var ErrConfig = errors.New("configuration error")

// Kind is the expected type of a named input
type Kind int

const (
	// KindString returns the raw value unchanged
	KindString Kind = iota
	// KindBool accepts the case-insensitive tokens "true" and "false"
	KindBool
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// LookupFunc looks up a named input, reporting whether it is present.
// os.LookupEnv is the production implementation.
type LookupFunc func(name string) (string, bool)

// Var declares a named input, its expected kind and its default.
// A nil Default means the input resolves to nil when absent.
type Var struct {
	Name    string
	Kind    Kind
	Default interface{}
}

// ConfigError describes an input that is missing or cannot be converted to its declared kind
type ConfigError struct {
	Name   string
	Value  string
	Reason string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Name, e.Value, e.Reason)
}

// Is makes every ConfigError match ErrConfig
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// Resolver resolves Vars against a lookup function
type Resolver struct {
	lookup LookupFunc
}

// NewResolver creates a Resolver. A nil lookup reads the process environment.
func NewResolver(lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Resolver{lookup: lookup}
}

// MapLookup returns a LookupFunc backed by a fixed map
func MapLookup(values map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}

// Value resolves v to a typed value: the default when the input is absent,
// otherwise the input converted to v.Kind.
func (r *Resolver) Value(v Var) (interface{}, error) {
	raw, ok := r.lookup(v.Name)
	if !ok {
		return v.Default, nil
	}

	switch v.Kind {
	case KindString:
		return raw, nil
	case KindBool:
		b, err := ParseBool(raw)
		if err != nil {
			return nil, &ConfigError{Name: v.Name, Value: raw, Reason: err.Error()}
		}
		return b, nil
	default:
		return nil, &ConfigError{Name: v.Name, Value: raw, Reason: fmt.Sprintf("unsupported kind %s", v.Kind)}
	}
}

// String resolves a KindString Var. An absent input with no default yields "".
func (r *Resolver) String(v Var) (string, error) {
	if v.Kind != KindString {
		return "", &ConfigError{Name: v.Name, Reason: fmt.Sprintf("declared as %s, requested as string", v.Kind)}
	}
	val, err := r.Value(v)
	if err != nil || val == nil {
		return "", err
	}
	s, ok := val.(string)
	if !ok {
		return "", &ConfigError{Name: v.Name, Reason: fmt.Sprintf("default %v is not a string", val)}
	}
	return s, nil
}

// Bool resolves a KindBool Var. An absent input with no default yields false.
func (r *Resolver) Bool(v Var) (bool, error) {
	if v.Kind != KindBool {
		return false, &ConfigError{Name: v.Name, Reason: fmt.Sprintf("declared as %s, requested as bool", v.Kind)}
	}
	val, err := r.Value(v)
	if err != nil || val == nil {
		return false, err
	}
	b, ok := val.(bool)
	if !ok {
		return false, &ConfigError{Name: v.Name, Reason: fmt.Sprintf("default %v is not a bool", val)}
	}
	return b, nil
}

// ParseBool accepts exactly "true" and "false", ignoring case.
// Unlike strconv.ParseBool, "1", "t" or "yes" are rejected.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("expected \"true\" or \"false\"")
}
