package bitio

import (
	"bytes"
	"testing"
)

func TestWriterMSBFirst(t *testing.T) {
	w := NewWriter()
	w.PutBit(1)
	w.PutBit(0)
	w.PutBit(1)
	w.PutBit(1)

	got := w.Bytes()
	want := []byte{0xb0}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %x, got %x", want, got)
	}
}

func TestPutBits(t *testing.T) {
	w := NewWriter()
	w.PutBits(0xa5, 8)
	w.PutBits(0x3, 2)

	got := w.Bytes()
	want := []byte{0xa5, 0xc0}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %x, got %x", want, got)
	}
}

func TestBitRoundTrip(t *testing.T) {
	pattern := []uint32{1, 1, 0, 1, 0, 0, 0, 1, 1, 0, 1}

	w := NewWriter()
	for _, b := range pattern {
		w.PutBit(b)
	}

	r := NewReader(w.Bytes())
	for i, want := range pattern {
		got := r.Bit()
		if got != want {
			t.Fatalf("bit %d: expected %d, got %d", i, want, got)
		}
	}
	if r.Overread() != 0 {
		t.Fatalf("unexpected overread: %d", r.Overread())
	}
}

func TestBitsRoundTrip(t *testing.T) {
	w := NewWriter()
	w.PutBits(0xdead, 16)
	w.PutBits(0x2b, 7)

	r := NewReader(w.Bytes())
	if got := r.Bits(16); got != 0xdead {
		t.Fatalf("expected 0xdead, got %#x", got)
	}
	if got := r.Bits(7); got != 0x2b {
		t.Fatalf("expected 0x2b, got %#x", got)
	}
}

func TestOverread(t *testing.T) {
	r := NewReader([]byte{0xff})

	if got := r.Bits(8); got != 0xff {
		t.Fatalf("expected 0xff, got %#x", got)
	}
	if r.Overread() != 0 {
		t.Fatalf("premature overread: %d", r.Overread())
	}

	for i := 0; i < 5; i++ {
		if got := r.Bit(); got != 0 {
			t.Fatalf("expected zero bit past end, got %d", got)
		}
	}
	if r.Overread() != 5 {
		t.Fatalf("expected overread 5, got %d", r.Overread())
	}
}

func TestEmptyWriter(t *testing.T) {
	w := NewWriter()
	if got := w.Bytes(); len(got) != 0 {
		t.Fatalf("expected empty stream, got %x", got)
	}
}
