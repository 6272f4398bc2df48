package fiasco

import (
	"fmt"

	"github.com/AlHeloween/Fiasco/fiasco/arith"
	"github.com/AlHeloween/Fiasco/fiasco/bitio"
)

// WeightObserver is called once per decoded weight, in decode order.
// Observation only: it must not mutate the automaton.
type WeightObserver func(state int, label int, edge int, domain int32, weight float64)

// Decoder reconstructs the transition weights of a decoded topology
// from a compressed stream.
type Decoder struct {
	models   *Models
	observer WeightObserver
}

func NewDecoder(models *Models) (*Decoder, error) {
	if models == nil {
		return nil, fmt.Errorf("missing quantization models")
	}

	err := models.validate()
	if err != nil {
		return nil, err
	}

	ret := new(Decoder)
	ret.models = models
	return ret, nil
}

// OnWeight registers an observer invoked once per decoded weight.
func (d *Decoder) OnWeight(fn WeightObserver) {
	d.observer = fn
}

// ReadWeights reads 'total' weights from input and fills the Weights
// and IntWeights of every range of wfa. The caller derives total from
// the same topology beforehand; a topology yielding a different edge
// count means encoder and decoder have lost sync and the whole decode
// is abandoned.
func (d *Decoder) ReadWeights(total int, wfa *Wfa, input *bitio.Reader) error {
	contexts, alphabets, err := WeightContexts(d.models, total, wfa)
	if err != nil {
		return err
	}

	codes, err := arith.DecodeArray(input, contexts, alphabets, len(alphabets), total, WeightScaling)
	if err != nil {
		return fmt.Errorf("weight stream: %s", err.Error())
	}

	return d.applyWeights(wfa, codes)
}

// WeightContexts assigns every transition weight of wfa the context of
// its probability model and returns the context array alongside the
// per-context alphabet sizes. Weights are bucketed by structural role:
// one shared context per DC category, one context per region level for
// the non-DC categories, with delta ranges bucketed separately
// throughout. The bucket boundaries are derived from the topology
// alone; no side information is transmitted for them.
func WeightContexts(models *Models, total int, wfa *Wfa) ([]int, []int, error) {
	if models == nil {
		return nil, nil, fmt.Errorf("missing quantization models")
	}
	err := models.validate()
	if err != nil {
		return nil, nil, err
	}

	// Check whether delta approximation has been used at all.
	delta_approx := false
	for state := wfa.BasisStates; state < wfa.States; state++ {
		if wfa.DeltaState[state] {
			delta_approx = true
			break
		}
	}

	// Level range and DC usage of the normal and the delta category.
	// A weight's level is that of the child regions it acts on, one
	// below its range state.
	min_level, max_level := maxLevel, 0
	d_min_level, d_max_level := maxLevel, 0
	dc, d_dc := false, false

	for state := wfa.BasisStates; state < wfa.States; state++ {
		for label := 0; label < MaxLabels; label++ {
			if !wfa.Ranges[state][label].IsRange {
				continue
			}
			for _, domain := range wfa.Ranges[state][label].Domains {
				if delta_approx && wfa.DeltaState[state] {
					if domain == 0 {
						d_dc = true
					} else {
						d_min_level = min(d_min_level, wfa.LevelOfState[state]-1)
						d_max_level = max(d_max_level, wfa.LevelOfState[state]-1)
					}
				} else {
					if domain == 0 {
						dc = true
					} else {
						min_level = min(min_level, wfa.LevelOfState[state]-1)
						max_level = max(max_level, wfa.LevelOfState[state]-1)
					}
				}
			}
		}
	}
	if min_level > max_level { // category unused, collapse the band
		max_level = min_level - 1
	}
	if d_min_level > d_max_level {
		d_max_level = d_min_level - 1
	}

	// Band boundaries, fixed order: DC, delta DC, per-level non-DC,
	// per-level delta non-DC.
	offset1 := 0
	if dc {
		offset1 = 1
	}
	offset2 := offset1
	if d_dc {
		offset2++
	}
	offset3 := offset2 + (max_level - min_level + 1)
	offset4 := offset3 + (d_max_level - d_min_level + 1)

	contexts := make([]int, 0, total)
	err = wfa.forEachEdge(func(state, label, edge int, domain int32) error {
		if len(contexts) >= total {
			return fmt.Errorf("cannot decode more than %d weights", total)
		}

		var ctx int
		if domain != 0 {
			if delta_approx && wfa.DeltaState[state] {
				ctx = offset3 + wfa.LevelOfState[state] - 1 - d_min_level
			} else {
				ctx = offset2 + wfa.LevelOfState[state] - 1 - min_level
			}
		} else if delta_approx && wfa.DeltaState[state] {
			ctx = offset1
		} else {
			ctx = 0
		}

		contexts = append(contexts, ctx)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(contexts) != total {
		return nil, nil, fmt.Errorf("expected %d weights, topology yields %d", total, len(contexts))
	}

	alphabets := make([]int, offset4)
	if dc {
		alphabets[0] = models.DcRpf.Alphabet()
	}
	if d_dc {
		alphabets[offset1] = models.DDcRpf.Alphabet()
	}
	for i := offset2; i < offset3; i++ {
		alphabets[i] = models.Rpf.Alphabet()
	}
	for i := offset3; i < offset4; i++ {
		alphabets[i] = models.DRpf.Alphabet()
	}

	return contexts, alphabets, nil
}

// applyWeights re-walks the topology in the canonical order and maps
// each decoded code through the model of its role. The role, not the
// numeric context id, selects the model.
func (d *Decoder) applyWeights(wfa *Wfa, codes []int) error {
	delta_approx := false
	for state := wfa.BasisStates; state < wfa.States; state++ {
		if wfa.DeltaState[state] {
			delta_approx = true
			break
		}
	}

	pos := 0
	return wfa.forEachEdge(func(state, label, edge int, domain int32) error {
		rpf := d.models.forRole(domain == 0, delta_approx && wfa.DeltaState[state])
		weight := rpf.Invert(codes[pos])
		pos++

		r := &wfa.Ranges[state][label]
		r.Weights[edge] = weight
		r.IntWeights[edge] = int32(weight*512 + 0.5)

		if d.observer != nil {
			d.observer(state, label, edge, domain, weight)
		}
		return nil
	})
}
