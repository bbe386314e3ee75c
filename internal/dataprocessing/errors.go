package dataprocessing

import (
	"errors"
	"fmt"
)

// ErrFileNotFound marks a missing source extract. Callers match it with
// errors.Is.
var ErrFileNotFound = errors.New("source file not found")

// ParseError reports malformed tabular structure in a source extract.
type ParseError struct {
	File   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s line %d: %s", e.File, e.Line, e.Reason)
	}
	return fmt.Sprintf("parse error in %s: %s", e.File, e.Reason)
}

// MissingColumnError reports a required column absent after load.
type MissingColumnError struct {
	File   string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q in %s", e.Column, e.File)
}
