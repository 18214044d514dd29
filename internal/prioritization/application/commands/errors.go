package commands

import "errors"

// ErrNotOwned is returned when a command targets a task that belongs to
// a different user.
var ErrNotOwned = errors.New("task does not belong to user")
