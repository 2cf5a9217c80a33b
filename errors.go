package asynclru

import "errors"

// ErrCacheCleared resolves every computation that was still in flight when
// Clear ran; each of its waiters observes this error.
var ErrCacheCleared = errors.New("asynclru: cache cleared")
