package fetch

import "errors"

// ErrSpeciesNotFound is returned when the species API has no entry for a name.
var ErrSpeciesNotFound = errors.New("species not found")
