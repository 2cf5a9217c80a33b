package asynclru

// DefaultMaxSize bounds caches built from a Config that does not set one.
const DefaultMaxSize = 128

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
