package pipeline

import "errors"

// Sentinel errors for the assembly pipeline.
var (
	// ErrSinkFailure wraps any error returned by a Sink. It aborts the
	// current document only.
	ErrSinkFailure = errors.New("document sink failed")
	// ErrInputDecoding is returned when input cannot be decoded even with
	// the fallback encoding.
	ErrInputDecoding = errors.New("input decoding failed")
)
