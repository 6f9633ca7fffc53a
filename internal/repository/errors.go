package repository

import "errors"

// ErrUnavailable is returned when the document store cannot be reached
// or a read/write fails. The service layer surfaces this as a
// persistence failure without touching in-memory state.
var ErrUnavailable = errors.New("document store unavailable")
