package bundlepack

import (
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
)

// CodecError is the error type returned by every package in this module. All
// values returned by the library wrap exactly one of the sentinel errors below,
// so callers can classify failures with [errors.Is].
type CodecError interface {
	error
	WithMessage(message string) CodecError
	Wrap(err error) CodecError
}

type baseCodecError string

const rootError = baseCodecError("")

// ErrUnknownFormatTag is returned when an artifact's magic number doesn't name
// any known transform.
var ErrUnknownFormatTag = rootError.WithMessage("Unknown format tag")

// ErrTruncatedInput is returned when a record declares more bytes than are
// available. It also matches [io.ErrUnexpectedEOF].
var ErrTruncatedInput = rootError.WithMessage("Truncated input").Wrap(io.ErrUnexpectedEOF)

// ErrInvariantViolation indicates a failed self-check: a backreference whose
// bytes don't match, a resolver that didn't converge, or decoded output of the
// wrong size. Seeing this on input produced by this module is a bug.
var ErrInvariantViolation = rootError.WithMessage("Internal invariant violated")

// ErrUnsupportedTransform is returned when compressing or decompressing with a
// mode that has no registered transform.
var ErrUnsupportedTransform = rootError.WithMessage("Unsupported transform")

// ErrInvalidArgument is returned for caller errors, such as an empty search
// needle or an input too large for the container header.
var ErrInvalidArgument = rootError.WithMessage("Invalid argument")

// ErrTransformFailed wraps failures reported by an entropy coder.
var ErrTransformFailed = rootError.WithMessage("Entropy transform failed")

func (e baseCodecError) Error() string {
	return string(e)
}

func (e baseCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       message,
		originalError: e,
	}
}

func (e baseCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customCodecError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customCodecError) Error() string {
	return e.message
}

func (e customCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customCodecError) Unwrap() error {
	return e.originalError
}

// WithMessagef is a convenience wrapper around [CodecError.WithMessage].
func WithMessagef(kind CodecError, format string, args ...any) CodecError {
	return kind.WithMessage(fmt.Sprintf(format, args...))
}

// CastToCodecError returns `err` unchanged if it's already a [CodecError], and
// otherwise wraps it in `fallback`. A nil error stays nil.
func CastToCodecError(err error, fallback CodecError) CodecError {
	if err == nil {
		return nil
	}

	var codecErr CodecError
	if errors.As(err, &codecErr) {
		return codecErr
	}
	return fallback.Wrap(err)
}
