package wire

import (
	"bytes"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestRecordRoundTrip(t *testing.T) {
	in := Record{Key: "user:42", Payload: []byte(`{"id":42}`), UnixNano: 1700000000000000000}
	b, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Ver != Version {
		t.Fatalf("version not stamped: got %d", out.Ver)
	}
	if out.Key != in.Key || !bytes.Equal(out.Payload, in.Payload) || out.UnixNano != in.UnixNano {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestEncodeRejectsEmptyKey(t *testing.T) {
	if _, err := Encode(Record{Payload: []byte("x")}); err == nil {
		t.Fatalf("Encode should reject an empty key")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not-msgpack")); err == nil {
		t.Fatalf("Decode should reject non-msgpack input")
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	b, err := msgpack.Marshal(Record{Ver: Version + 1, Key: "k", Payload: []byte("v")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := Decode(b); err == nil {
		t.Fatalf("Decode should reject version %d", Version+1)
	}
}

func TestDecodeRejectsMissingKey(t *testing.T) {
	b, err := msgpack.Marshal(Record{Ver: Version, Payload: []byte("v")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := Decode(b); err == nil {
		t.Fatalf("Decode should reject a record without a key")
	}
}
