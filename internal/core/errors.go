package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInputInvalid is returned before any work starts when the input or
	// output directory is unusable or the thread count is zero.
	ErrInputInvalid = errors.New("invalid input")
	// ErrSameDirectory is returned when a move would leave a file where it is.
	ErrSameDirectory = errors.New("source and target share a directory")
	// ErrSourceNotFound is returned when the move source is missing or is not a
	// regular file.
	ErrSourceNotFound = errors.New("source file not found")
)

// Stage names the pipeline step an ItemError came from.
type Stage string

const (
	StageScan   Stage = "scan"
	StageLookup Stage = "lookup"
	StagePlan   Stage = "plan"
	StageMove   Stage = "move"
	StageNotify Stage = "notify"
)

// ItemError is a failure bound to one file. It does not stop the batch the
// file belongs to.
type ItemError struct {
	Path  string
	Stage Stage
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// SilentExit makes the process exit with Code without printing anything.
type SilentExit struct {
	Code int
}

func (e SilentExit) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
