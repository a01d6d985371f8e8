package worker

import "errors"

// permanentError marks a failure that retrying can never fix: a malformed
// payload or a source object that does not exist. The consumer buries these
// in the dead-letter sink immediately instead of burning delivery attempts.
// Every other failure is retriable and heals through lease expiry and
// redelivery.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// Permanent wraps err as non-retriable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err is marked non-retriable.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}
