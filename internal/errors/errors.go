// Package errors defines the bridge error taxonomy and the diagnostic
// channel used for non-fatal failures.
//
// Configuration errors are fatal and surface synchronously at definition
// time. Coercion and unresolved-callable errors are non-fatal: they are
// reported through a DiagnosticCollector and never interrupt rendering.
// Render errors propagate to the caller of the mutation that triggered the
// render, since swallowing them would hide genuine component bugs.
package errors

import (
	"fmt"
	"time"
)

// ErrorSeverity represents the severity of a diagnostic
type ErrorSeverity int

const (
	ErrorSeverityInfo ErrorSeverity = iota
	ErrorSeverityWarning
	ErrorSeverityError
	ErrorSeverityFatal
)

// String returns the string representation of the severity
func (s ErrorSeverity) String() string {
	switch s {
	case ErrorSeverityInfo:
		return "info"
	case ErrorSeverityWarning:
		return "warning"
	case ErrorSeverityError:
		return "error"
	case ErrorSeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ConfigurationError reports an invalid PropSpec or EventSpec at definition
// time. It fails the whole element-class definition.
type ConfigurationError struct {
	Tag     string
	Field   string
	Message string
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	if ce.Field != "" {
		return fmt.Sprintf("definition %q: %s: %s", ce.Tag, ce.Field, ce.Message)
	}
	return fmt.Sprintf("definition %q: %s", ce.Tag, ce.Message)
}

// CoercionCode identifies why an attribute string failed to coerce.
type CoercionCode int

const (
	CoercionInvalidNumber CoercionCode = iota
	CoercionInvalidBoolean
	CoercionInvalidJSON
	CoercionEmptyFunctionKey
	CoercionUnsupportedForAttribute
	CoercionInvalidProperty
)

// String returns the string representation of the coercion code
func (c CoercionCode) String() string {
	switch c {
	case CoercionInvalidNumber:
		return "invalid_number"
	case CoercionInvalidBoolean:
		return "invalid_boolean"
	case CoercionInvalidJSON:
		return "invalid_json"
	case CoercionEmptyFunctionKey:
		return "empty_function_key"
	case CoercionUnsupportedForAttribute:
		return "unsupported_for_attribute"
	case CoercionInvalidProperty:
		return "invalid_property"
	default:
		return "unknown"
	}
}

// CoercionError reports a bad attribute value at mutation time. Non-fatal:
// the previous valid value is retained and rendering proceeds.
type CoercionError struct {
	Code CoercionCode
	Prop string
	Raw  string
	Err  error // underlying parser diagnostic, when one exists
}

// Error implements the error interface
func (ce *CoercionError) Error() string {
	if ce.Err != nil {
		return fmt.Sprintf("coerce %q: %s: %v (raw %q)", ce.Prop, ce.Code, ce.Err, ce.Raw)
	}
	return fmt.Sprintf("coerce %q: %s (raw %q)", ce.Prop, ce.Code, ce.Raw)
}

// Unwrap returns the underlying parser error, if any
func (ce *CoercionError) Unwrap() error {
	return ce.Err
}

// UnresolvedCallableError reports a function-kind key that was not found in
// the lookup registry at invocation time. The invocation becomes a no-op.
type UnresolvedCallableError struct {
	Prop string
	Key  string
}

// Error implements the error interface
func (ue *UnresolvedCallableError) Error() string {
	return fmt.Sprintf("callable prop %q: key %q not found in registry", ue.Prop, ue.Key)
}

// RenderPhase identifies which wrapped-component operation failed.
type RenderPhase string

const (
	PhaseMount   RenderPhase = "mount"
	PhaseUpdate  RenderPhase = "update"
	PhaseUnmount RenderPhase = "unmount"
)

// RenderError wraps a failure from the wrapped component's Mount, Update or
// Unmount. It propagates to the caller of the triggering DOM mutation.
type RenderError struct {
	Tag   string
	Phase RenderPhase
	Err   error
}

// Error implements the error interface
func (re *RenderError) Error() string {
	return fmt.Sprintf("render %q: %s failed: %v", re.Tag, re.Phase, re.Err)
}

// Unwrap returns the wrapped component error
func (re *RenderError) Unwrap() error {
	return re.Err
}

// Diagnostic is one entry on the observability channel.
type Diagnostic struct {
	Tag       string
	Prop      string
	Err       error
	Severity  ErrorSeverity
	Timestamp time.Time
}

// String formats the diagnostic for logs
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: [%s/%s] %v", d.Severity, d.Tag, d.Prop, d.Err)
}
