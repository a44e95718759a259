package model

import (
	"errors"
	"fmt"
)

// Error classes shared across the pipeline. Callers classify failures with
// errors.Is; concrete errors wrap one of these.
var (
	ErrSourceRead             = errors.New("source read error")
	ErrDocumentParse          = errors.New("document parse error")
	ErrEnvironmentUnsupported = errors.New("environment unsupported")
	ErrProfileInvariant       = errors.New("profile invariant violation")
	ErrTemplateRead           = errors.New("template read error")
)

// ErrProfileParse is a document parse error raised for property-list input.
var ErrProfileParse = fmt.Errorf("profile %w", ErrDocumentParse)

// UnitError records a failure of one build unit (a template spec, or one
// spec/palette pair).
type UnitError struct {
	Template string
	Scheme   string
	Err      error
}

func (e *UnitError) Error() string {
	if e.Scheme == "" {
		return e.Template + ": " + e.Err.Error()
	}
	return e.Template + " [" + e.Scheme + "]: " + e.Err.Error()
}

func (e *UnitError) Unwrap() error { return e.Err }
