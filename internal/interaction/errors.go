package interaction

import "fmt"

// MissingIdentityError is returned when a marker has no ID.
type MissingIdentityError struct {
	Index int
	Label string
}

func (e *MissingIdentityError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("marker %d (%s) does not have an ID", e.Index, e.Label)
	}
	return fmt.Sprintf("marker %d does not have an ID", e.Index)
}

// DuplicateIdentityError is returned when two markers share an ID.
type DuplicateIdentityError struct {
	ID int
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("marker ID %d is used more than once", e.ID)
}

// InvalidMarkerError is returned for a nil marker or a marker without a
// component.
type InvalidMarkerError struct {
	Index  int
	Reason string
}

func (e *InvalidMarkerError) Error() string {
	return fmt.Sprintf("invalid marker %d: %s", e.Index, e.Reason)
}
