/*
NAME
  errors.go

DESCRIPTION
  errors.go implements the sum-typed error result the convert package
  returns: every error carries a Kind drawn from the taxonomy, plus the
  underlying cause, so that a caller can distinguish "fix your input"
  from "install ffmpeg" from "disk full" without string matching.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package convert

import "fmt"

// Kind classifies why a conversion failed.
type Kind int

const (
	// InputInvalid covers a malformed or unsupported WAV: bad RIFF/WAVE
	// magic, missing fmt/data chunks, a format tag other than PCM, or a
	// bit depth other than 16.
	InputInvalid Kind = iota
	// ExternalMissing means a required external tool (ffmpeg, oggenc)
	// was not found on PATH.
	ExternalMissing
	// ExternalFailed means an external tool ran but exited non-zero.
	ExternalFailed
	// IO covers a read, write, or delete failure on any path.
	IO
)

func (k Kind) String() string {
	switch k {
	case InputInvalid:
		return "input invalid"
	case ExternalMissing:
		return "external tool missing"
	case ExternalFailed:
		return "external tool failed"
	case IO:
		return "I/O error"
	default:
		return "unknown"
	}
}

// Error is the single diagnostic type Convert returns. It is never
// wrapped further; callers that need the cause use errors.Unwrap or the
// Cause field directly.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("convert: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("convert: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// newError constructs an *Error, the one place Kind values get paired
// with a message and cause.
func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}
