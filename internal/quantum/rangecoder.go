package quantum

// rangeDecoder is Quantum's 16-bit arithmetic range decoder (spec
// §4.3). Its overall decode-resolve-narrow-renormalise shape follows
// the teacher's block-decode loop (read symbol, act on it, refill);
// the register width, the get_freq/narrow arithmetic and the E3
// underflow rule are specific to Quantum and not shared with any
// sampled repo (gopus's rangecoding.Decoder, cited in DESIGN.md, uses
// RFC 6716's own 32-bit carryless scheme and was consulted only for
// API shape: Init/normalize/getFreq-style methods).
type rangeDecoder struct {
	br   *BitReader
	low  uint32
	high uint32
	code uint32
}

const (
	mask16    = 0xFFFF
	topBit    = 0x8000
	secondBit = 0x4000
)

func newRangeDecoder(br *BitReader) *rangeDecoder {
	rd := &rangeDecoder{br: br, low: 0, high: mask16}
	rd.code = br.ReadBits(16)
	return rd
}

// getFreq returns the scaled cumulative-frequency target for the next
// symbol, given the caller's total (spec §4.3).
func (rd *rangeDecoder) getFreq(total uint32) (uint32, error) {
	rangeSize := rd.high - rd.low + 1
	if total == 0 || rangeSize == 0 {
		return 0, ErrDecodeOutOfRange
	}
	target := ((rd.code-rd.low+1)*total - 1) / rangeSize
	if target >= total {
		return 0, ErrDecodeOutOfRange
	}
	return target, nil
}

// narrow resolves the decoder onto the half-open range [symLo, symHi)
// out of total, then renormalises (spec §4.3).
func (rd *rangeDecoder) narrow(symLo, symHi, total uint32) error {
	rangeSize := rd.high - rd.low + 1
	newHigh := rd.low + (rangeSize*symHi)/total - 1
	newLow := rd.low + (rangeSize*symLo)/total
	if newHigh < newLow || newHigh > mask16 {
		return ErrDecodeOutOfRange
	}
	rd.low, rd.high = newLow, newHigh
	rd.normalize()
	return nil
}

// normalize implements the Quantum-specific 16-bit renormalisation
// loop from spec §4.3: shift out matching top bits, and separately
// handle the E3 underflow case where low/high straddle the midpoint
// closely enough that their top bits never match on their own.
func (rd *rangeDecoder) normalize() {
	for {
		switch {
		case (rd.low^rd.high)&topBit == 0:
			// top bits already agree; shift below.
		case rd.low&secondBit != 0 && rd.high&secondBit == 0:
			// E3 underflow: low is 01xxxx, high is 10xxxx. Discarding
			// the second-highest bit from all three registers makes
			// their top bits agree without losing precision.
			rd.low -= secondBit
			rd.high -= secondBit
			rd.code -= secondBit
		default:
			return
		}
		bit := rd.br.ReadBits(1)
		rd.low = (rd.low << 1) & mask16
		rd.high = ((rd.high << 1) | 1) & mask16
		rd.code = ((rd.code << 1) | bit) & mask16
	}
}

// readRawBits reads n bits directly from the underlying bit stream,
// bypassing the coder's low/high/code registers entirely. Used for
// slot extra bits (spec §4.4/§4.5).
func (rd *rangeDecoder) readRawBits(n uint) uint32 {
	return rd.br.ReadBitsRaw(n)
}
