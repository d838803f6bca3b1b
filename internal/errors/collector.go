package errors

import (
	"sync"
	"time"
)

// DiagnosticCollector collects non-fatal bridge diagnostics. Coercion and
// unresolved-callable failures are reported here instead of being thrown
// across the bridge boundary.
type DiagnosticCollector struct {
	diagnostics []Diagnostic
	mutex       sync.RWMutex
}

// NewDiagnosticCollector creates a new diagnostic collector
func NewDiagnosticCollector() *DiagnosticCollector {
	return &DiagnosticCollector{
		diagnostics: make([]Diagnostic, 0),
	}
}

// Add adds a diagnostic to the collector
func (dc *DiagnosticCollector) Add(d Diagnostic) {
	dc.mutex.Lock()
	defer dc.mutex.Unlock()
	d.Timestamp = time.Now()
	dc.diagnostics = append(dc.diagnostics, d)
}

// Report records err against a tag/prop pair with error severity
func (dc *DiagnosticCollector) Report(tag, prop string, err error) {
	if err == nil {
		return
	}
	dc.Add(Diagnostic{
		Tag:      tag,
		Prop:     prop,
		Err:      err,
		Severity: ErrorSeverityError,
	})
}

// Warn records err against a tag/prop pair with warning severity
func (dc *DiagnosticCollector) Warn(tag, prop string, err error) {
	if err == nil {
		return
	}
	dc.Add(Diagnostic{
		Tag:      tag,
		Prop:     prop,
		Err:      err,
		Severity: ErrorSeverityWarning,
	})
}

// All returns all collected diagnostics
func (dc *DiagnosticCollector) All() []Diagnostic {
	dc.mutex.RLock()
	defer dc.mutex.RUnlock()
	// Return a copy to avoid race conditions
	result := make([]Diagnostic, len(dc.diagnostics))
	copy(result, dc.diagnostics)
	return result
}

// ByProp returns diagnostics recorded for a specific prop
func (dc *DiagnosticCollector) ByProp(prop string) []Diagnostic {
	dc.mutex.RLock()
	defer dc.mutex.RUnlock()
	var out []Diagnostic
	for _, d := range dc.diagnostics {
		if d.Prop == prop {
			out = append(out, d)
		}
	}
	return out
}

// ByTag returns diagnostics recorded for a specific element tag
func (dc *DiagnosticCollector) ByTag(tag string) []Diagnostic {
	dc.mutex.RLock()
	defer dc.mutex.RUnlock()
	var out []Diagnostic
	for _, d := range dc.diagnostics {
		if d.Tag == tag {
			out = append(out, d)
		}
	}
	return out
}

// HasDiagnostics returns true if any diagnostics were recorded
func (dc *DiagnosticCollector) HasDiagnostics() bool {
	dc.mutex.RLock()
	defer dc.mutex.RUnlock()
	return len(dc.diagnostics) > 0
}

// Count returns the number of recorded diagnostics
func (dc *DiagnosticCollector) Count() int {
	dc.mutex.RLock()
	defer dc.mutex.RUnlock()
	return len(dc.diagnostics)
}

// Clear clears all diagnostics
func (dc *DiagnosticCollector) Clear() {
	dc.mutex.Lock()
	defer dc.mutex.Unlock()
	dc.diagnostics = dc.diagnostics[:0]
}
