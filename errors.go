package mxregex

import (
	"fmt"

	"github.com/cmax0/mxregex/internal/engine"
)

// Status classifies a fatal match failure. StatusOK never appears on a
// returned error: a plain no-match carries no error at all, only a
// false/nil result, so Status alone always distinguishes "no match"
// from "something went wrong".
type Status = engine.Status

const (
	StatusOK                 = engine.StatusOK
	StatusSyntax             = engine.StatusSyntax
	StatusQuantifierErr      = engine.StatusQuantifierErr
	StatusCapsOverflow       = engine.StatusCapsOverflow
	StatusRecurseOverflow    = engine.StatusRecurseOverflow
	StatusAltSegOverflow     = engine.StatusAltSegOverflow
	StatusBacktrackOverflow  = engine.StatusBacktrackOverflow
	StatusMaxIterateOverflow = engine.StatusMaxIterateOverflow
)

// Sentinel errors, one per Status a Compile or Match call can fail
// with. Use errors.Is against these rather than comparing Status
// directly when you only care about the failure class.
var (
	ErrSyntax             = engine.ErrSyntax
	ErrQuantifier         = engine.ErrQuantifier
	ErrCapsOverflow       = engine.ErrCapsOverflow
	ErrRecurseOverflow    = engine.ErrRecurseOverflow
	ErrAltSegOverflow     = engine.ErrAltSegOverflow
	ErrBacktrackOverflow  = engine.ErrBacktrackOverflow
	ErrMaxIterateOverflow = engine.ErrMaxIterateOverflow
)

// MatchError is returned by Compile/CompileWithConfig when a pattern
// is malformed, and obtainable from a successfully compiled Regex via
// LastError after a Match/Find call hits a fixed-table bound or a
// syntax error the compile-time trial did not reach. It is never
// returned for a plain no-match.
type MatchError struct {
	Status Status
	Offset int // byte offset into the pattern
	inner  *engine.FatalError
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("mxregex: %s: at pattern offset %d", e.Status, e.Offset)
}

func (e *MatchError) Unwrap() error {
	return e.inner
}

func wrapFatal(err error) *MatchError {
	fe, ok := err.(*engine.FatalError)
	if !ok {
		return nil
	}
	return &MatchError{Status: fe.Status, Offset: fe.Offset, inner: fe}
}
