package main

import (
	"errors"
	"fmt"

	"github.com/2ndBillingCycle/toolboot/internal/bootstrap"
	"github.com/2ndBillingCycle/toolboot/internal/locate"
	"github.com/2ndBillingCycle/toolboot/internal/runner"
)

// Exit codes by failure class.
const (
	exitOther        = 1
	exitPrecondition = 2
	exitNotFound     = 3
	exitExecution    = 4
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCode classifies err. Precondition failures are checked first since
// they can wrap an execution error from the version probe.
func exitCode(err error) int {
	var (
		pre *bootstrap.PreconditionError
		nf  *locate.NotFoundError
		ee  *runner.ExecutionError
	)
	switch {
	case err == nil:
		return 0
	case errors.As(err, &pre):
		return exitPrecondition
	case errors.As(err, &nf):
		return exitNotFound
	case errors.As(err, &ee):
		return exitExecution
	default:
		return exitOther
	}
}

// exitWith wraps err with its classified exit code.
func exitWith(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: exitCode(err), Err: err}
}
