package typechart

import "errors"

// ErrTypeNotFound is returned when a type name is not one of the 18 chart types.
var ErrTypeNotFound = errors.New("type not found")

// ErrInvalidTyping is returned when a defender has no types or more than
// MaxDefendingTypes.
var ErrInvalidTyping = errors.New("invalid typing")

// MaxDefendingTypes is the most types a single defender can carry.
const MaxDefendingTypes = 2
