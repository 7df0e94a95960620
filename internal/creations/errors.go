package creations

import "errors"

// ErrNotFound covers missing rows and rows the caller does not own.
// Both cases answer identically so ownership cannot be probed.
var ErrNotFound = errors.New("creation not found")
