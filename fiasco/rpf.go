package fiasco

import (
	"fmt"
)

// Rpf is a reduced-precision format for transition weights: values in
// [-Range, +Range] are carried as sign-magnitude codes with
// MantissaBits bits of magnitude.
type Rpf struct {
	MantissaBits uint
	Range        float64
}

func NewRpf(mantissaBits uint, rng float64) (*Rpf, error) {
	if mantissaBits < 1 || mantissaBits > 8 {
		return nil, fmt.Errorf("invalid mantissa size: %d", mantissaBits)
	}
	if rng <= 0 {
		return nil, fmt.Errorf("invalid weight range: %f", rng)
	}
	return &Rpf{MantissaBits: mantissaBits, Range: rng}, nil
}

// Alphabet returns the number of distinct codes the format produces.
func (r *Rpf) Alphabet() int {
	return 1 << (r.MantissaBits + 1)
}

// Invert maps a code in [0, Alphabet()) back to its real value. Code 0
// is zero; otherwise the low bit carries the sign and the remaining
// bits the magnitude.
func (r *Rpf) Invert(code int) float64 {
	if code == 0 {
		return 0
	}

	mantissa := float64((code + 1) >> 1)
	val := mantissa / float64(int(1)<<r.MantissaBits) * r.Range
	if code&1 != 0 {
		return -val
	}
	return val
}

// Quantize maps a real value to the nearest representable code. It is
// the exact inverse of Invert on representable values.
func (r *Rpf) Quantize(f float64) int {
	steps := 1 << r.MantissaBits

	neg := f < 0
	if neg {
		f = -f
	}

	mantissa := int(f/r.Range*float64(steps) + 0.5)
	if mantissa == 0 {
		return 0
	}

	if neg {
		if mantissa > steps {
			mantissa = steps
		}
		return 2*mantissa - 1
	}
	if mantissa > steps-1 {
		mantissa = steps - 1
	}
	return 2 * mantissa
}

// Models is the quantization model registry: one Rpf per weight role.
// DC models carry the constant term, delta models the weights of
// ranges approximated against a previous frame.
type Models struct {
	Rpf    *Rpf // non-DC weights
	DcRpf  *Rpf // DC components
	DRpf   *Rpf // non-DC weights of delta ranges
	DDcRpf *Rpf // DC components of delta ranges
}

// forRole selects the model decoding a weight with the given role.
func (m *Models) forRole(dc bool, delta bool) *Rpf {
	switch {
	case dc && delta:
		return m.DDcRpf
	case dc:
		return m.DcRpf
	case delta:
		return m.DRpf
	default:
		return m.Rpf
	}
}

func (m *Models) validate() error {
	if m.Rpf == nil {
		return fmt.Errorf("missing quantization model for weights")
	}
	if m.DcRpf == nil {
		return fmt.Errorf("missing quantization model for DC components")
	}
	if m.DRpf == nil {
		return fmt.Errorf("missing quantization model for delta weights")
	}
	if m.DDcRpf == nil {
		return fmt.Errorf("missing quantization model for delta DC components")
	}
	return nil
}
