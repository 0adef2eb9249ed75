package level

import (
	"errors"
	"fmt"

	"github.com/Faultbox/scenery/internal/engine/frame"
)

// Sentinel errors. Typed errors below match them through errors.Is.
var (
	ErrParse               = errors.New("malformed scene descriptor")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrUnknownCameraType   = errors.New("unknown camera type")
	ErrDuplicateName       = errors.New("duplicate name")
	ErrLightOverflow       = frame.ErrLightOverflow
	ErrBackend             = errors.New("backend failure")
	ErrUnknownName         = errors.New("unknown name")
	ErrClosed              = errors.New("level is closed")
)

// OverflowError reports more lights of one kind than the frame can hold.
type OverflowError = frame.OverflowError

// ParseError points at the descriptor field that could not be read.
type ParseError struct {
	File   string
	Path   string // e.g. actors[1].position_y
	Reason string
}

func (e *ParseError) Error() string {
	msg := "parse"
	if e.File != "" {
		msg += " " + e.File
	}
	if e.Path != "" {
		msg += ": " + e.Path
	}
	return msg + ": " + e.Reason
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ReferenceError is a name that was not loaded before something used it.
type ReferenceError struct {
	Kind  string // registry the name was looked up in
	Name  string
	Owner string // who referenced it, e.g. `actor "box"`
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s references unknown %s %q", e.Owner, e.Kind, e.Name)
}

func (e *ReferenceError) Is(target error) bool { return target == ErrUnresolvedReference }

// DuplicateNameError rejects a second entry under an existing name.
type DuplicateNameError struct {
	Registry string
	Name     string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Registry, e.Name)
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }

// CameraTypeError names a camera whose type string is not recognised.
type CameraTypeError struct {
	Camera string
	Type   string
}

func (e *CameraTypeError) Error() string {
	return fmt.Sprintf("camera %q: unknown type %q", e.Camera, e.Type)
}

func (e *CameraTypeError) Is(target error) bool { return target == ErrUnknownCameraType }

// BackendError wraps a failure from the asset loader or renderer.
type BackendError struct {
	Op   string
	Name string
	Err  error
}

func (e *BackendError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *BackendError) Is(target error) bool { return target == ErrBackend }

func (e *BackendError) Unwrap() error { return e.Err }
