package errs

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrBlobNotFound     = errors.New("blob not found")
	ErrInvalidID        = errors.New("invalid id")
	ErrCorruptImage     = errors.New("corrupt image")
	ErrMalformedRequest = errors.New("malformed generation request")
	ErrQueueUnavailable = errors.New("work queue unavailable")
)

// PipelineError is a failed thumbnail generation step. Permanent failures are
// acknowledged and dropped, the rest are left for redelivery.
type PipelineError struct {
	Stage     string
	Permanent bool
	Err       error
}

func (e *PipelineError) Error() string {
	kind := "transient"
	if e.Permanent {
		kind = "permanent"
	}

	return fmt.Sprintf("%s failure at %s: %v", kind, e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func IsPermanent(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Permanent
	}

	return errors.Is(err, ErrMalformedRequest)
}
