package player

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrConflict means the player already is in the requested state, which
// happens when the same command is sent twice in quick succession.
var ErrConflict = errors.New("player already in requested state")

// TransientError wraps failures that may succeed on retry: network errors,
// rate limiting and server-side errors.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient failure: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// temporary is implemented by errors that know whether they are retryable,
// such as *subsonic.StatusError.
type temporary interface {
	Temporary() bool
}

// classifyNetwork marks timeouts and network failures as transient. Other
// errors are returned unchanged.
func classifyNetwork(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Op: op, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &TransientError{Op: op, Err: err}
	}

	var tmp temporary
	if errors.As(err, &tmp) && tmp.Temporary() {
		return &TransientError{Op: op, Err: err}
	}
	return err
}
