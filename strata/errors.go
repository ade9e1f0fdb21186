package strata

import "fmt"

// InvalidEntityIdError is returned when a serialized mapping contains an
// entity id that is zero or not a positive integer.
type InvalidEntityIdError struct {
	Raw string
}

func (e InvalidEntityIdError) Error() string {
	return fmt.Sprintf("invalid entity id %q: entity ids are strictly positive integers", e.Raw)
}
