package bootstrap

import "fmt"

// PreconditionError is returned when the host does not meet a minimum
// requirement. Nothing has been installed when it is returned.
type PreconditionError struct {
	Requirement string // e.g. "python >= 3.7"
	Found       string // what the host reported, empty if nothing usable
	Detail      string // captured probe output
	Err         error
}

func (e *PreconditionError) Error() string {
	msg := fmt.Sprintf("precondition not met: %s", e.Requirement)
	if e.Found != "" {
		msg += fmt.Sprintf(", found %s", e.Found)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	if e.Detail != "" {
		msg += "\n" + e.Detail
	}
	return msg
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}
