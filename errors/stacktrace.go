package errors

import (
	"github.com/pkg/errors"
)

// stackTracer is implemented by errors produced (or wrapped) by
// github.com/pkg/errors and gives access to the stack trace recorded when
// the error was created.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stack trace found while unwrapping given
// error, or nil if no layer carries one.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}
