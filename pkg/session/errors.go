package session

import "errors"

// ErrSessionLimit is returned by Create when the manager is full.
var ErrSessionLimit = errors.New("session limit reached")
