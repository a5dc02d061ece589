package quantum

const (
	modelIncrement  = 8
	maxTotal        = 0x3FFF // Russotto's documented Quantum ceiling (spec §4.2)
	updateThreshold = 50
)

// model is Quantum's order-0 adaptive frequency model (spec §3/§4.2):
// a rank<->symbol permutation plus a cumulative frequency table,
// updated after every decode and periodically nudged toward a
// front-weighted ordering — Quantum's cheap, O(1) substitute for full
// move-to-front. Structurally grounded on the discipline the teacher's
// huffman.go uses to keep tree-build and decode cleanly separated;
// the update/rescale/swap rules themselves come straight from spec
// §4.2, since no sampled repo implements this particular adaptive
// scheme.
type model struct {
	sym              []uint16
	cf               []uint32
	updatesSinceSwap int
}

// newModel builds a model over n symbols with identity rank order and
// uniform initial frequency 1, so cf[0] = n (spec §3).
func newModel(n int) *model {
	m := &model{
		sym: make([]uint16, n),
		cf:  make([]uint32, n+1),
	}
	for i := 0; i < n; i++ {
		m.sym[i] = uint16(i)
		m.cf[i] = uint32(n - i)
	}
	return m
}

func (m *model) total() uint32 { return m.cf[0] }

func (m *model) freq(rank int) uint32 { return m.cf[rank] - m.cf[rank+1] }

// rankForTarget finds the smallest-range rank i whose cumulative
// window [cf[i+1], cf[i]) contains target (spec §4.2 step b). A
// well-formed table always has cf[n] == 0, so the walk terminates by
// the last rank at latest; if it doesn't, the table has stopped being
// strictly decreasing and ErrModelInvariantBroken is returned instead
// of indexing past the end of cf.
func (m *model) rankForTarget(target uint32) (int, error) {
	if target >= m.total() {
		return 0, ErrDecodeOutOfRange
	}
	n := len(m.sym)
	i := 0
	for m.cf[i+1] > target {
		i++
		if i >= n {
			return 0, ErrModelInvariantBroken
		}
	}
	return i, nil
}

// decode pulls a symbol from rd using this model's frequency table,
// narrows rd onto the resolved rank's range, updates the model, and
// returns the decoded symbol (not its rank).
func (m *model) decode(rd *rangeDecoder) (uint16, error) {
	target, err := rd.getFreq(m.total())
	if err != nil {
		return 0, err
	}
	rank, err := m.rankForTarget(target)
	if err != nil {
		return 0, err
	}
	if err := rd.narrow(m.cf[rank+1], m.cf[rank], m.total()); err != nil {
		return 0, err
	}
	sym := m.sym[rank]
	m.update(rank)
	return sym, nil
}

// update implements spec §4.2: add a fixed increment to the decoded
// rank's frequency, rescale if the total overflows maxTotal, and
// every updateThreshold updates promote the decoded rank one slot
// toward rank 0 if doing so keeps frequencies non-increasing by rank.
func (m *model) update(rank int) {
	for j := 0; j <= rank; j++ {
		m.cf[j] += modelIncrement
	}
	if m.cf[0] > maxTotal {
		m.rescale()
	}
	m.updatesSinceSwap++
	if m.updatesSinceSwap >= updateThreshold {
		m.updatesSinceSwap = 0
		m.maybePromote(rank)
	}
}

// rescale halves every rank's frequency, rounding up to at least 1,
// and rebuilds the cumulative table — the classic adaptive-arithmetic
// scaling step spec §4.2 calls for when cf[0] exceeds maxTotal.
func (m *model) rescale() {
	n := len(m.sym)
	freqs := make([]uint32, n)
	for i := 0; i < n; i++ {
		f := (m.freq(i) + 1) / 2
		if f < 1 {
			f = 1
		}
		freqs[i] = f
	}
	m.cf[n] = 0
	for i := n - 1; i >= 0; i-- {
		m.cf[i] = m.cf[i+1] + freqs[i]
	}
}

// maybePromote swaps rank with rank-1 when rank's frequency has grown
// past its more-favoured neighbour's, moving the busier symbol one
// slot closer to the front. Only the single shared cut point cf[rank]
// needs to move; the outer bounds cf[rank-1] and cf[rank+1] (and thus
// the total) are unchanged.
func (m *model) maybePromote(rank int) {
	if rank == 0 {
		return
	}
	fNeighbour := m.freq(rank - 1)
	fRank := m.freq(rank)
	if fRank <= fNeighbour {
		return
	}
	m.sym[rank], m.sym[rank-1] = m.sym[rank-1], m.sym[rank]
	m.cf[rank] = m.cf[rank+1] + fNeighbour
}
