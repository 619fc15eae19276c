package migration

import (
	"errors"
	"fmt"
)

var (
	ErrCycle          = errors.New("stage dependency cycle")
	ErrUnknownStage   = errors.New("unknown prerequisite stage")
	ErrDuplicateStage = errors.New("duplicate stage")
)

// TransformError reports a legacy row that could not be mapped onto the
// target model. Any TransformError aborts the stage.
type TransformError struct {
	Entity string
	Key    string
	Field  string
	Err    error
}

func (e *TransformError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("transform %s %q: %v", e.Entity, e.Key, e.Err)
	}
	return fmt.Sprintf("transform %s %q field %s: %v", e.Entity, e.Key, e.Field, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// BatchError identifies the chunk that failed inside ExecuteBatches.
type BatchError struct {
	Label string
	Chunk int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: chunk %d failed: %v", e.Label, e.Chunk, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
