// Package keys derives storage names from cache keys.
package keys

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// FilePrefix returns the filename prefix shared by every entry of one
// namespace.
func FilePrefix(ns string) string {
	if ns == "" {
		return "cache_"
	}
	return "cache_" + ns + "_"
}

// FileName derives the persisted filename for a key:
// cache_<ns>_<hash>, or cache_<hash> without a namespace.
func FileName(ns, key string) string {
	return fmt.Sprintf("%s%016x", FilePrefix(ns), xxhash.Sum64String(key))
}

// Hash folds already-encoded key material into a short stable hex digest.
// Parts are separated so that ("ab","c") and ("a","bc") do not collide.
func Hash(parts ...[]byte) string {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.Write(p)
		_, _ = d.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
