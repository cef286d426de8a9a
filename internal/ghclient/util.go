package ghclient

import (
	"errors"
	"fmt"
)

func pathf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// as is a thin rename of errors.As, kept local so label/err-classification
// call sites read naturally (`as(err, &ghErr)`).
func as(err error, target any) bool {
	return errors.As(err, target)
}
