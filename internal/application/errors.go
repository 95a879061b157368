package application

import "errors"

// ErrStale is returned when a newer request for the same session started
// while this one was resolving.
var ErrStale = errors.New("superseded by a newer selection")
