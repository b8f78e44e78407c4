package errs

import "errors"

// ValidationError marks errors caused by the caller's input rather than by the encoder itself.
type ValidationError interface {
	ValidationError()
}

type ValidationErrorImpl struct {
}

func (ValidationErrorImpl) ValidationError() {
}

func IsValidationError(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
