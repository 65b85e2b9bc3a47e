package gen

import (
	"errors"
	"strings"
)

// ErrGenerationFailed is matched by every error that stops an artifact from
// being produced.
var ErrGenerationFailed = errors.New("savepipe: code generation failed")

// UnitError reports a failed artifact of one source unit.
type UnitError struct {
	Unit     string
	Artifact string
	Cause    error
}

// Error implements the error interface.
func (e *UnitError) Error() string {
	var b strings.Builder
	b.WriteString("savepipe: generation error")
	if e.Unit != "" {
		b.WriteString(" in ")
		b.WriteString(e.Unit)
	}
	if e.Artifact != "" {
		b.WriteString(" (")
		b.WriteString(e.Artifact)
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *UnitError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrGenerationFailed.
func (e *UnitError) Is(target error) bool {
	return target == ErrGenerationFailed
}
