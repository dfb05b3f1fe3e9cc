package validators

import "errors"

// ErrInvalidField indicates an account record field that failed validation.
// The wrapped message names the field.
var ErrInvalidField = errors.New("invalid account field")
