package errors

import "fmt"

// Diagnostic is a non-fatal report about degenerate input that the engine
// recovered from with a deterministic fallback.
type Diagnostic struct {
	Code    Code   `json:"code"`
	Source  string `json:"source,omitempty"` // Stage or component that produced it
	Message string `json:"message"`
}

// Diag creates a Diagnostic with a formatted message.
func Diag(code Code, source, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Source: source, Message: fmt.Sprintf(format, args...)}
}

// String formats the diagnostic as "CODE [source]: message".
func (d Diagnostic) String() string {
	if d.Source == "" {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Code, d.Source, d.Message)
}
