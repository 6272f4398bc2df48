// Package arith implements the adaptive arithmetic coder used for WFA
// weight streams: a 16-bit Witten-Neal-Cleary coder driven by one
// adaptive frequency model per context. Elements are not tagged on the
// wire; the caller's context array is the only link between a coded
// value and its model, so encoder and decoder must agree on it
// position for position.
package arith

import (
	"fmt"

	"github.com/AlHeloween/Fiasco/fiasco/bitio"
)

const (
	codeBits = 16
	maxCode  = 1<<codeBits - 1
	firstQtr = maxCode/4 + 1
	half     = 2 * firstQtr
	thirdQtr = 3 * firstQtr
)

// DecodeArray decodes n values from input. contexts[i] selects the
// model coding element i, alphabets gives the symbol count of each of
// the n_contexts models, and scaling is the rescale bound shared with
// the encoder. The decoded value for element i lies in
// [0, alphabets[contexts[i]]).
func DecodeArray(input *bitio.Reader, contexts []int, alphabets []int, n_contexts int, n int, scaling uint32) ([]int, error) {
	err := checkLayout(contexts, alphabets, n_contexts, n, scaling)
	if err != nil {
		return nil, err
	}

	data := make([]int, n)
	if n == 0 {
		return data, nil
	}

	models := make([]*model, n_contexts)
	for i := 0; i < n_contexts; i++ {
		models[i] = newModel(alphabets[i], scaling)
	}

	low := uint32(0)
	high := uint32(maxCode)
	value := input.Bits(codeBits)

	for i := 0; i < n; i++ {
		m := models[contexts[i]]

		rng := high - low + 1
		index := ((value-low+1)*m.total - 1) / rng
		symbol, cum_low, cum_high := m.lookup(index)

		high = low + rng*cum_high/m.total - 1
		low = low + rng*cum_low/m.total

		for {
			if high < half {
				// low half, no offset
			} else if low >= half {
				value -= half
				low -= half
				high -= half
			} else if low >= firstQtr && high < thirdQtr {
				value -= firstQtr
				low -= firstQtr
				high -= firstQtr
			} else {
				break
			}
			low <<= 1
			high = high<<1 + 1
			value = value<<1 | input.Bit()
		}

		data[i] = symbol
		m.update(symbol)
	}

	if input.Overread() > 0 {
		return nil, fmt.Errorf("premature end of input stream")
	}

	return data, nil
}

// EncodeArray is the encoder matching DecodeArray: identical models
// and identical updates, so the decoder can track the encoder's state
// from the bitstream alone. The output ends with enough zero padding
// to cover the decoder's code register.
func EncodeArray(output *bitio.Writer, data []int, contexts []int, alphabets []int, n_contexts int, scaling uint32) error {
	n := len(data)
	err := checkLayout(contexts, alphabets, n_contexts, n, scaling)
	if err != nil {
		return err
	}

	if n == 0 {
		return nil
	}

	models := make([]*model, n_contexts)
	for i := 0; i < n_contexts; i++ {
		models[i] = newModel(alphabets[i], scaling)
	}

	low := uint32(0)
	high := uint32(maxCode)
	pending := 0

	emit := func(bit uint32) {
		output.PutBit(bit)
		for ; pending > 0; pending-- {
			output.PutBit(bit ^ 1)
		}
	}

	for i := 0; i < n; i++ {
		m := models[contexts[i]]

		symbol := data[i]
		if symbol < 0 || symbol >= len(m.counts) {
			return fmt.Errorf("value %d exceeds alphabet %d of context %d", symbol, len(m.counts), contexts[i])
		}
		cum_low, cum_high := m.interval(symbol)

		rng := high - low + 1
		high = low + rng*cum_high/m.total - 1
		low = low + rng*cum_low/m.total

		for {
			if high < half {
				emit(0)
			} else if low >= half {
				emit(1)
				low -= half
				high -= half
			} else if low >= firstQtr && high < thirdQtr {
				pending++
				low -= firstQtr
				high -= firstQtr
			} else {
				break
			}
			low <<= 1
			high = high<<1 + 1
		}

		m.update(symbol)
	}

	// Disambiguate the final interval, then pad out the decoder's
	// code register.
	pending++
	if low < firstQtr {
		emit(0)
	} else {
		emit(1)
	}
	output.PutBits(0, codeBits)

	return nil
}

// checkLayout validates the context/alphabet layout shared by both
// coder directions. Model totals must stay below firstQtr or the
// coder's intervals collapse, which bounds both the alphabets and the
// scaling.
func checkLayout(contexts []int, alphabets []int, n_contexts int, n int, scaling uint32) error {
	if len(contexts) < n {
		return fmt.Errorf("%d contexts for %d elements", len(contexts), n)
	}
	if n_contexts > len(alphabets) {
		return fmt.Errorf("%d alphabet sizes for %d contexts", len(alphabets), n_contexts)
	}
	if scaling == 0 || scaling >= firstQtr {
		return fmt.Errorf("invalid model scaling %d", scaling)
	}
	for i := 0; i < n_contexts; i++ {
		if alphabets[i] < 1 || alphabets[i] >= firstQtr {
			return fmt.Errorf("invalid alphabet size %d for context %d", alphabets[i], i)
		}
	}
	for i := 0; i < n; i++ {
		if contexts[i] < 0 || contexts[i] >= n_contexts {
			return fmt.Errorf("context %d out of range [0, %d)", contexts[i], n_contexts)
		}
	}
	return nil
}
