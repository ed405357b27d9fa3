// Package command holds the reversible edits applied to a document.
//
// A command captures everything it needs when it is constructed. Execute and
// Unexecute never return errors: a path that no longer resolves is reported
// through Env.Report and the step is skipped, leaving document and view as
// they were.
package command

import (
	"errors"
	"fmt"

	"github.com/golang/glog"

	"github.com/komsit37/qre/pkg/qre/types"
	"github.com/komsit37/qre/pkg/qre/view"
)

// Command is one reversible unit of document and view change.
// Execute must be safe to call again on an already executed command.
type Command interface {
	Execute()
	Unexecute()
	Describe() string
}

// Regions is implemented by commands that know which view regions they touch.
type Regions interface {
	AffectedViewRegions() []types.RegionID
}

// Env carries the collaborators a command works against.
type Env struct {
	Doc  *types.Document
	View view.Adapter
	// Report receives stale-reference problems. Nil logs them with glog.
	Report func(error)
}

func (e Env) report(err error) {
	if e.Report != nil {
		e.Report(err)
		return
	}
	glog.Warningf("[cmd] %v", err)
}

func (e Env) view() view.Adapter {
	if e.View == nil {
		return view.Nop{}
	}
	return e.View
}

var (
	// ErrStaleReference marks a captured key or path that no longer resolves.
	ErrStaleReference = errors.New("stale reference")
	// ErrValidation marks user input rejected before any command exists.
	ErrValidation = errors.New("invalid input")
)

// StaleRefError reports the operation and path that failed to resolve.
type StaleRefError struct {
	Op     string
	Path   types.Path
	Reason string
}

func (e *StaleRefError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Reason)
}

func (e *StaleRefError) Unwrap() error { return ErrStaleReference }

func stale(op string, p types.Path, format string, args ...any) error {
	return &StaleRefError{Op: op, Path: p, Reason: fmt.Sprintf(format, args...)}
}

// ValidationError describes rejected input for a control.
type ValidationError struct {
	Path   types.Path
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %q: %s", e.Path, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
