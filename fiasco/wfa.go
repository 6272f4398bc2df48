package fiasco

// Range holds the weighted transitions of one (state, label) pair: the
// approximation of that region as a linear combination of domains.
// Domains lists the referenced regions in transmission order. Domain 0
// is the constant (DC) term; state 0 is the constant basis function
// and is never referenced as a real domain.
type Range struct {
	IsRange    bool
	Domains    []int32
	Weights    []float64
	IntWeights []int32
}

// Wfa is the automaton topology. Everything except the weight output
// slices is populated by the topology decoder before weights are read.
// States below BasisStates are basis functions without transitions of
// their own.
type Wfa struct {
	States       int
	BasisStates  int
	LevelOfState []int
	DeltaState   []bool
	Ranges       [][]Range
}

// NewWfa allocates the per-state storage of a topology.
func NewWfa(states int, basisStates int) *Wfa {
	ret := new(Wfa)

	ret.States = states
	ret.BasisStates = basisStates
	ret.LevelOfState = make([]int, states)
	ret.DeltaState = make([]bool, states)
	ret.Ranges = make([][]Range, states)
	for i := 0; i < states; i++ {
		ret.Ranges[i] = make([]Range, MaxLabels)
	}

	return ret
}

// AddRange marks (state, label) as a range with the given domain list
// and allocates its weight storage.
func (w *Wfa) AddRange(state int, label int, domains []int32) {
	r := &w.Ranges[state][label]
	r.IsRange = true
	r.Domains = domains
	r.Weights = make([]float64, len(domains))
	r.IntWeights = make([]int32, len(domains))
}

// CountWeights returns the number of transition weights the topology
// requires, i.e. the edge count over all ranges.
func (w *Wfa) CountWeights() int {
	total := 0
	for state := w.BasisStates; state < w.States; state++ {
		for label := 0; label < MaxLabels; label++ {
			if w.Ranges[state][label].IsRange {
				total += len(w.Ranges[state][label].Domains)
			}
		}
	}
	return total
}

// forEachEdge walks every (state, label, edge) triple in the canonical
// order: ascending state, then label, then edge. The weight stream
// carries no per-element tags, so the context classification and the
// weight reconstruction both have to use this walk; position is the
// only link between a decoded value and its transition.
func (w *Wfa) forEachEdge(fn func(state int, label int, edge int, domain int32) error) error {
	for state := w.BasisStates; state < w.States; state++ {
		for label := 0; label < MaxLabels; label++ {
			if !w.Ranges[state][label].IsRange {
				continue
			}
			for edge, domain := range w.Ranges[state][label].Domains {
				err := fn(state, label, edge, domain)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}
