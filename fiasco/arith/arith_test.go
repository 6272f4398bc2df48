package arith

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/AlHeloween/Fiasco/fiasco/bitio"
)

func roundTrip(t *testing.T, data []int, contexts []int, alphabets []int, scaling uint32) []byte {
	t.Helper()

	w := bitio.NewWriter()
	err := EncodeArray(w, data, contexts, alphabets, len(alphabets), scaling)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	payload := w.Bytes()

	got, err := DecodeArray(bitio.NewReader(payload), contexts, alphabets, len(alphabets), len(data), scaling)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("element %d: expected %d, got %d", i, data[i], got[i])
		}
	}
	return payload
}

func TestRoundTripSingleContext(t *testing.T) {
	data := []int{3, 0, 7, 7, 7, 1, 2, 7, 0, 5}
	contexts := make([]int, len(data))
	roundTrip(t, data, contexts, []int{8}, 500)
}

func TestRoundTripMultiContext(t *testing.T) {
	data := []int{0, 15, 1, 1, 2, 9, 0, 1, 14, 1}
	contexts := []int{0, 1, 2, 0, 2, 1, 0, 2, 1, 0}
	roundTrip(t, data, contexts, []int{2, 16, 4}, 500)
}

func TestRoundTripAdaptation(t *testing.T) {
	// Long skewed input with a small scaling bound, so the models
	// rescale many times along the way.
	rng := rand.New(rand.NewSource(42))
	data := make([]int, 5000)
	contexts := make([]int, len(data))
	for i := range data {
		contexts[i] = i % 3
		if rng.Intn(10) == 0 {
			data[i] = rng.Intn(32)
		} else {
			data[i] = rng.Intn(3)
		}
	}
	payload := roundTrip(t, data, contexts, []int{32, 32, 32}, 64)

	// The skew must buy real compression over 5 bits per element.
	if len(payload)*8 >= len(data)*5 {
		t.Fatalf("no compression: %d bits for %d elements", len(payload)*8, len(data))
	}
}

func TestRoundTripSingleSymbolAlphabet(t *testing.T) {
	data := []int{0, 0, 0, 0}
	contexts := []int{0, 0, 0, 0}
	roundTrip(t, data, contexts, []int{1}, 500)
}

func TestEmptyArray(t *testing.T) {
	w := bitio.NewWriter()
	err := EncodeArray(w, nil, nil, []int{4}, 1, 500)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(w.Bytes()) != 0 {
		t.Fatalf("expected empty stream, got %d bytes", len(w.Bytes()))
	}

	got, err := DecodeArray(bitio.NewReader(nil), nil, []int{4}, 1, 0, 500)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no elements, got %d", len(got))
	}
}

func TestPrematureEnd(t *testing.T) {
	contexts := []int{0, 0, 0, 0}
	_, err := DecodeArray(bitio.NewReader([]byte{0xa0}), contexts, []int{16}, 1, 4, 500)
	if err == nil {
		t.Fatal("expected error on truncated stream")
	}
	if !strings.Contains(err.Error(), "premature end") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBadContext(t *testing.T) {
	contexts := []int{0, 2}
	alphabets := []int{4, 4}

	_, err := DecodeArray(bitio.NewReader([]byte{0, 0}), contexts, alphabets, 2, 2, 500)
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected context range error, got %v", err)
	}

	err = EncodeArray(bitio.NewWriter(), []int{0, 0}, contexts, alphabets, 2, 500)
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected context range error, got %v", err)
	}
}

func TestBadSymbol(t *testing.T) {
	err := EncodeArray(bitio.NewWriter(), []int{4}, []int{0}, []int{4}, 1, 500)
	if err == nil {
		t.Fatal("expected error for symbol outside alphabet")
	}
}

func TestBadScaling(t *testing.T) {
	_, err := DecodeArray(bitio.NewReader(nil), []int{0}, []int{4}, 1, 1, 0)
	if err == nil {
		t.Fatal("expected error for zero scaling")
	}
	_, err = DecodeArray(bitio.NewReader(nil), []int{0}, []int{4}, 1, 1, firstQtr)
	if err == nil {
		t.Fatal("expected error for oversized scaling")
	}
}

func TestDecodeDeterminism(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	data := make([]int, 300)
	contexts := make([]int, len(data))
	for i := range data {
		contexts[i] = i % 2
		data[i] = rng.Intn(8)
	}
	alphabets := []int{8, 8}

	w := bitio.NewWriter()
	err := EncodeArray(w, data, contexts, alphabets, 2, 500)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	payload := w.Bytes()

	first, err := DecodeArray(bitio.NewReader(payload), contexts, alphabets, 2, len(data), 500)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	second, err := DecodeArray(bitio.NewReader(payload), contexts, alphabets, 2, len(data), 500)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("element %d: %d != %d across decodes", i, first[i], second[i])
		}
	}
}
