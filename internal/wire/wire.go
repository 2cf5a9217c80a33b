// Package wire defines the persisted record envelope shared by the disk and
// redis backends: the original cache key, the codec-encoded value and its
// capture time.
package wire

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Version tags the envelope layout. Decode rejects records carrying any
// other version instead of guessing at their shape.
const Version = 1

// Record is one persisted cache entry.
type Record struct {
	Ver      uint8  `msgpack:"v"`
	Key      string `msgpack:"k"`
	Payload  []byte `msgpack:"p"`
	UnixNano int64  `msgpack:"t"`
}

// Encode serializes r, stamping the current envelope version.
func Encode(r Record) ([]byte, error) {
	if r.Key == "" {
		return nil, fmt.Errorf("wire: record key must not be empty")
	}
	r.Ver = Version
	return msgpack.Marshal(r)
}

// Decode parses b into a Record, validating version and key.
func Decode(b []byte) (Record, error) {
	var r Record
	if err := msgpack.Unmarshal(b, &r); err != nil {
		return Record{}, fmt.Errorf("wire: %w", err)
	}
	if r.Ver != Version {
		return Record{}, fmt.Errorf("wire: unsupported record version %d", r.Ver)
	}
	if r.Key == "" {
		return Record{}, fmt.Errorf("wire: record has empty key")
	}
	return r, nil
}
