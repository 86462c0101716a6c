package narrate

import (
	"errors"
	"fmt"
)

// Common errors for the narration pipeline.
var (
	// Content errors
	ErrUnknownCategory   = errors.New("unknown content category")
	ErrUnknownContentKey = errors.New("unknown content key")
	ErrEmptyContent      = errors.New("no narratable segments")

	// Synthesis errors
	ErrSynthesisFailed = errors.New("audio synthesis failed")
	ErrEngineNotReady  = errors.New("synthesis engine is not initialized")

	// Encoding errors
	ErrUnknownFormat = errors.New("unknown audio format")
	ErrEncodeFailed  = errors.New("audio transcode failed")
	ErrIO            = errors.New("filesystem operation failed")
)

// PipelineError reports a unit failure together with the stage it occurred
// in, so batch callers can log where a unit died without parsing messages.
type PipelineError struct {
	Stage Stage
	Unit  string
	Err   error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Unit, e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error { return e.Err }

func failed(stage Stage, unit string, err error) *PipelineError {
	return &PipelineError{Stage: stage, Unit: unit, Err: err}
}
