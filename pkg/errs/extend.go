package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

type IExtend interface {
	Extend(message string) error
}

// Extend prefixes err with message, keeping the concrete error type when it knows how to extend itself.
func Extend(err error, message string) error {
	if ex, ok := err.(IExtend); ok {
		return ex.Extend(message)
	}
	return errors.Wrap(err, message)
}

type INest interface {
	Nest(parent string) error
}

// Nest moves a field error under the parent field, so "signer" reported by an inner
// transaction becomes "otherTrans.signer". Other errors are wrapped with the parent name.
func Nest(err error, parent string) error {
	var n INest
	if errors.As(err, &n) {
		return n.Nest(parent)
	}
	return errors.Wrap(err, parent)
}

func fmtExtend(self error, message string) string {
	return fmt.Sprintf("%s: %s", message, self)
}
