package diag

import (
	"fmt"

	"ember/internal/source"
)

// Errorf emits an error-level diagnostic through r with a formatted message.
func Errorf(r Reporter, code Code, primary source.Span, format string, args ...any) {
	if r == nil {
		return
	}
	r.Report(code, SevError, primary, fmt.Sprintf(format, args...), nil)
}
