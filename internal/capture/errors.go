package capture

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is to classify a failure returned by the Capturer.
var (
	ErrEnumeration      = errors.New("monitor enumeration failed")
	ErrNoPrimaryMonitor = errors.New("no primary monitor found")
	ErrMonitorNotFound  = errors.New("monitor not found")
	ErrInvalidRegion    = errors.New("invalid capture region")
	ErrCapture          = errors.New("region capture failed")
	ErrEncoding         = errors.New("png encoding failed")
	ErrPersistence      = errors.New("saving capture failed")
)

// Error carries the kind of a pipeline failure together with its cause.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

func newError(kind error, op string, cause error) error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// ensureKind keeps errors that already carry a kind and wraps the rest.
func ensureKind(kind error, op string, err error) error {
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return newError(kind, op, err)
}

func newErrorf(kind error, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindName returns a short stable name for the kind of err, suitable for
// wire responses. Unknown errors map to "internal".
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEnumeration):
		return "enumeration"
	case errors.Is(err, ErrNoPrimaryMonitor):
		return "no_primary_monitor"
	case errors.Is(err, ErrMonitorNotFound):
		return "monitor_not_found"
	case errors.Is(err, ErrInvalidRegion):
		return "invalid_region"
	case errors.Is(err, ErrCapture):
		return "capture"
	case errors.Is(err, ErrEncoding):
		return "encoding"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "internal"
	}
}
