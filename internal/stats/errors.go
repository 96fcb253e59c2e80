package stats

import "errors"

// ErrInvalidEV is returned when an effort value is out of range or a spread
// exceeds the total budget.
var ErrInvalidEV = errors.New("invalid EV")
