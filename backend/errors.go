package backend

import "fmt"

// UnavailableError reports that a backend could not be constructed, e.g. an
// unwritable cache directory or an unreachable server. It is returned at
// construction time, never deferred to first use.
type UnavailableError struct {
	Backend string // "disk" or "redis"
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s backend unavailable: %v", e.Backend, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
