package pipeline

import "errors"

// ErrBlockNotFound is returned when a reference window has no indexed block and missing
// blocks are not allowed.
var ErrBlockNotFound = errors.New("no block found in window")
