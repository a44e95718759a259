package plist

import (
	"errors"
	"fmt"

	"base16builder/model"
)

// ErrNoObject is returned when an object-pool entry cannot be resolved.
var ErrNoObject = errors.New("object pool entry not found")

// ParseError reports malformed property-list input. It matches
// model.ErrProfileParse with errors.Is.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "parse plist: " + e.Err.Error()
	}
	return fmt.Sprintf("parse plist %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{model.ErrProfileParse, e.Err}
}

// DuplicateKeyError is returned by Add when the dict already holds key.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q", e.Key)
}

// KindError is returned when an operation is applied to a node of the
// wrong kind.
type KindError struct {
	Op   string
	Want Kind
	Got  Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%s: want %s node, got %s", e.Op, e.Want, e.Got)
}
