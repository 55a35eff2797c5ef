package contract

import "errors"

// ErrDuplicate is returned when an insert hits a unique constraint.
var ErrDuplicate = errors.New("duplicate record")
