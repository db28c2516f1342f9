package scene

import (
	"errors"
	"fmt"
)

// ErrUnsupported is matched by errors from operations an item cannot
// perform, such as centering the camera on a set of interaction points.
var ErrUnsupported = errors.New("operation not supported")

// UnsupportedOperationError reports an operation that a kind of item does
// not implement.
type UnsupportedOperationError struct {
	Op   string
	Kind string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s is not supported for %s", e.Op, e.Kind)
}

// Is makes UnsupportedOperationError match ErrUnsupported.
func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupported
}
