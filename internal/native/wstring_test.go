package native

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWideStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "Line1", "Ünïcødé", "wave 🌊 height"} {
		p, err := WideString(s)
		if err != nil {
			t.Fatalf("WideString(%q): %v", s, err)
		}
		if got := GoWideString(p); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}

func TestWideStringRejectsNUL(t *testing.T) {
	if _, err := WideString("a\x00b"); !errors.Is(err, ErrEmbeddedNUL) {
		t.Fatalf("expected ErrEmbeddedNUL, got %v", err)
	}
}

func TestGoWideStringNil(t *testing.T) {
	if got := GoWideString(nil); got != "" {
		t.Fatalf("GoWideString(nil) = %q", got)
	}
}

func TestWideListRoundTrip(t *testing.T) {
	in := []string{"X", "Effective Tension", "Curvature 🌀"}
	if diff := cmp.Diff(in, decodeWideList(EncodeWideList(in))); diff != "" {
		t.Fatalf("list round trip (-want +got):\n%s", diff)
	}
	if got := decodeWideList(EncodeWideList(nil)); got != nil {
		t.Fatalf("empty list decoded to %v", got)
	}
}

func TestSetFixedWideTruncates(t *testing.T) {
	var field [8]uint16
	SetFixedWide(field[:], "abcdefghijk")
	if got := fixedWide(field[:]); got != "abcdefg" {
		t.Fatalf("got %q, want 7 units and a terminator", got)
	}
	SetFixedWide(field[:], "ab")
	if got := fixedWide(field[:]); got != "ab" {
		t.Fatalf("shorter write left %q", got)
	}
	for _, c := range field[2:] {
		if c != 0 {
			t.Fatalf("stale units after shorter write: %v", field)
		}
	}
}
