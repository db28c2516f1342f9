package view

import "fmt"

// MalformedViewError is returned when a view definition has the wrong
// shape.
type MalformedViewError struct {
	View   string
	Field  string // "visible", "focus", or empty for the view itself
	Reason string
}

func (e *MalformedViewError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid view definition %q: %s", e.View, e.Reason)
	}
	return fmt.Sprintf("invalid %s components for view %q: %s", e.Field, e.View, e.Reason)
}

// NotFoundError is returned when an operation names a view that is not in
// the catalog.
type NotFoundError struct {
	View string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("view %q does not exist", e.View)
}
