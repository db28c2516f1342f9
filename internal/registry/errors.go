package registry

import "fmt"

// InvalidCapabilityError is returned when a value cannot be tracked as a
// component at all.
type InvalidCapabilityError struct {
	Name   string
	Reason string
}

func (e *InvalidCapabilityError) Error() string {
	return fmt.Sprintf("invalid component %q: %s", e.Name, e.Reason)
}

// DuplicateNameError is returned when a name is already taken.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("component %q is already registered", e.Name)
}

// DuplicateInstanceError is returned when the same component is registered
// a second time, under any name.
type DuplicateInstanceError struct {
	Name     string
	Existing string
}

func (e *DuplicateInstanceError) Error() string {
	return fmt.Sprintf("cannot register %q: component is already registered as %q", e.Name, e.Existing)
}

// OwnershipConflictError is returned when a component shares a containing
// structure with an already registered one, so that showing one would
// hide the other.
type OwnershipConflictError struct {
	Name        string
	Conflicting string
	Group       string
}

func (e *OwnershipConflictError) Error() string {
	return fmt.Sprintf("cannot register %q: group %s is already used by component %q", e.Name, e.Group, e.Conflicting)
}

// NotFoundError is returned when replacing a component that does not exist.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("component %q is not registered", e.Name)
}
