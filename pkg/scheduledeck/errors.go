package scheduledeck

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDecode indicates an input spreadsheet or image could not be decoded.
var ErrDecode = errors.New("decode failed")

// ErrMissingPrerequisite indicates generation was requested before every
// input was provided.
var ErrMissingPrerequisite = errors.New("missing prerequisite")

// ErrCompose indicates a slide could not be built.
var ErrCompose = errors.New("compose failed")

// ErrSuperseded indicates a load was overtaken by a newer load of the same
// kind and its result was discarded.
var ErrSuperseded = errors.New("superseded by a newer load")

// Prerequisite names, in reporting order.
const (
	PrereqSpreadsheet  = "spreadsheet"
	PrereqMinimap      = "minimap"
	PrereqScenes       = "scenes"
	PrereqAssociations = "associations"
)

// DecodeError represents an input that could not be decoded.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// PrerequisiteError lists the inputs still missing before generation.
type PrerequisiteError struct {
	Missing []string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("cannot generate deck, missing: %s", strings.Join(e.Missing, ", "))
}

func (e *PrerequisiteError) Unwrap() error {
	return ErrMissingPrerequisite
}

// ComposeError represents a failure while building one scene's slide.
type ComposeError struct {
	// Scene is the scene index, or -1 when the failure is not scene specific.
	Scene int
	Err   error
}

func (e *ComposeError) Error() string {
	if e.Scene < 0 {
		return fmt.Sprintf("compose deck: %v", e.Err)
	}
	return fmt.Sprintf("compose scene %d: %v", e.Scene, e.Err)
}

func (e *ComposeError) Unwrap() []error {
	return []error{ErrCompose, e.Err}
}
