// Package codec provides value (de)serialization for the persistent cache
// backends. The in-memory backend stores values directly and needs none.
package codec

// Codec encodes and decodes values V to and from bytes for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Bytes is an identity codec for values that already are raw byte slices.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }

// String converts string values to and from bytes. Assumes UTF-8 by
// convention; no validation is performed.
type String struct{}

func (String) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (String) Decode(b []byte) (string, error) { return string(b), nil }
