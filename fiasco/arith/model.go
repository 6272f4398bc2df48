package arith

// model is an adaptive frequency model over a fixed alphabet. Counts
// start uniform and grow by one per coded symbol; when the total
// exceeds the scaling bound, all counts are halved so the model keeps
// tracking local statistics. Encoder and decoder must apply the same
// updates in the same order.
type model struct {
	counts  []uint32
	total   uint32
	scaling uint32
}

func newModel(symbols int, scaling uint32) *model {
	m := new(model)
	m.counts = make([]uint32, symbols)
	for i := range m.counts {
		m.counts[i] = 1
	}
	m.total = uint32(symbols)
	m.scaling = scaling
	return m
}

// interval returns the cumulative count bounds of symbol.
func (m *model) interval(symbol int) (uint32, uint32) {
	var cum uint32
	for i := 0; i < symbol; i++ {
		cum += m.counts[i]
	}
	return cum, cum + m.counts[symbol]
}

// lookup finds the symbol whose interval contains the cumulative
// index, which the coder guarantees to be below the model total.
func (m *model) lookup(index uint32) (int, uint32, uint32) {
	var cum uint32
	for i, c := range m.counts {
		if index < cum+c {
			return i, cum, cum + c
		}
		cum += c
	}
	panic("arith: cumulative index outside model")
}

// update records one occurrence of symbol.
func (m *model) update(symbol int) {
	m.counts[symbol]++
	m.total++
	if m.total > m.scaling {
		m.total = 0
		for i, c := range m.counts {
			m.counts[i] = (c + 1) >> 1
			m.total += m.counts[i]
		}
	}
}
