package api

import (
	"errors"
	"fmt"
)

var (
	// ErrFinished is returned by Send after Finish has been called on the
	// proxy. The runtime also uses it internally to recognize a gracefully
	// drained channel, which it reports as normal completion, not an error.
	ErrFinished = errors.New("transiro: event channel finished")

	// ErrAlreadyBound is returned when a second runtime attempts to consume
	// a proxy that is already bound. This is a programmer error, but it is
	// reported as a value rather than a panic so the caller can surface it.
	ErrAlreadyBound = errors.New("transiro: proxy already bound to a runtime")
)

// OverflowError is returned by the buffered proxy's Send when the buffer is
// at capacity. The event was not enqueued; the caller decides whether to
// drop it (ignore the error) or escalate.
type OverflowError struct {
	Capacity int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("transiro: event buffer overflow (capacity %d)", e.Capacity)
}

// IsOverflow reports whether err indicates a buffered-proxy overflow.
func IsOverflow(err error) bool {
	var o *OverflowError
	return errors.As(err, &o)
}

// CancelError is the typed outcome of Proxy.Cancel. It is distinct from a
// context cancellation: the channel was faulted deliberately, at the
// application level, with an optional cause.
type CancelError struct {
	Cause error
}

func (e *CancelError) Error() string {
	if e.Cause != nil {
		return "transiro: event channel cancelled: " + e.Cause.Error()
	}
	return "transiro: event channel cancelled"
}

func (e *CancelError) Unwrap() error { return e.Cause }

// IsCancelled returns (cause, true) if err is a proxy cancellation.
func IsCancelled(err error) (error, bool) {
	var c *CancelError
	if errors.As(err, &c) {
		return c.Cause, true
	}
	return nil, false
}

// EffectError reports a non-cancellation failure inside an effect body. When
// an operation or action fails without converting the error into an event,
// the runtime terminates and Run returns an EffectError wrapping the cause.
type EffectError struct {
	ID    TaskID
	Cause error
}

func (e *EffectError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("transiro: effect %q failed: %v", e.ID, e.Cause)
	}
	return fmt.Sprintf("transiro: effect failed: %v", e.Cause)
}

func (e *EffectError) Unwrap() error { return e.Cause }

// IsEffectFailure returns (id, true) if err is a failed effect body.
func IsEffectFailure(err error) (TaskID, bool) {
	var f *EffectError
	if errors.As(err, &f) {
		return f.ID, true
	}
	return "", false
}
