package radio

import (
	"fmt"

	"github.com/yhkl-dev/localradio/domain"
)

// DispatchError is a command that failed or panicked. The radio logs it and
// keeps reading input.
type DispatchError struct {
	Key     domain.Key
	Command domain.Command
	Station string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s (key %q) on %q: %v", e.Command, e.Key, e.Station, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
