package codec

import (
	"bytes"
	"testing"
)

type sample struct {
	ID   int               `json:"id" msgpack:"id"`
	Tags map[string]string `json:"tags" msgpack:"tags"`
}

func TestJSONAndMsgpackRoundTrip(t *testing.T) {
	in := sample{ID: 7, Tags: map[string]string{"a": "1", "b": "2"}}

	t.Run("json", func(t *testing.T) {
		b, err := JSON[sample]{}.Encode(in)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		out, err := JSON[sample]{}.Decode(b)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if out.ID != in.ID || len(out.Tags) != len(in.Tags) {
			t.Fatalf("round trip mismatch: %+v", out)
		}
	})

	t.Run("msgpack", func(t *testing.T) {
		b, err := Msgpack[sample]{}.Encode(in)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		out, err := Msgpack[sample]{}.Decode(b)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if out.ID != in.ID || len(out.Tags) != len(in.Tags) {
			t.Fatalf("round trip mismatch: %+v", out)
		}
	})
}

// Deterministic CBOR must produce identical bytes for maps regardless of
// insertion order; the default key derivation depends on this.
func TestCBORDeterministicMapEncoding(t *testing.T) {
	c := MustCBOR[map[string]int](true)

	m1 := map[string]int{"alpha": 1, "beta": 2, "gamma": 3}
	m2 := map[string]int{"gamma": 3, "alpha": 1, "beta": 2}

	b1, err := c.Encode(m1)
	if err != nil {
		t.Fatalf("Encode m1: %v", err)
	}
	b2, err := c.Encode(m2)
	if err != nil {
		t.Fatalf("Encode m2: %v", err)
	}
	if !bytes.Equal(b1, b2) {
		t.Fatalf("deterministic encoding differs:\n%x\n%x", b1, b2)
	}
}

func TestLimitRejectsOversizedDecode(t *testing.T) {
	lc := Limit[string]{Inner: String{}, MaxDecode: 4}

	if _, err := lc.Encode("this encode side is unlimited"); err != nil {
		t.Fatalf("Encode should not be limited: %v", err)
	}
	if _, err := lc.Decode([]byte("ok")); err != nil {
		t.Fatalf("Decode under limit: %v", err)
	}
	if _, err := lc.Decode([]byte("way past the limit")); err == nil {
		t.Fatalf("Decode should reject oversized payload")
	}
}
