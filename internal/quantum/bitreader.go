package quantum

import (
	"bufio"
	"io"
)

// BitReader extracts bits MSB-first from a byte source. It feeds the
// range decoder's renormalisation and also serves the raw, unaligned
// reads needed for slot extra bits and the inter-file checksum.
//
// The buffering scheme mirrors the teacher's bzip2 bitReader: bytes are
// shifted into the low end of a wide accumulator as they are needed,
// and a request for k bits reads the top k of the currently valid
// bits. Unlike that reader, PeekBits and ConsumeBits are split so the
// range decoder can inspect upcoming bits before deciding how many of
// them to actually consume.
type BitReader struct {
	r         io.ByteReader
	n         uint64
	bits      uint
	err       error
	bytesRead uint
}

// NewBitReader returns a BitReader over r. If r does not already
// implement io.ByteReader it is wrapped in a bufio.Reader, as the
// teacher's bitReader does.
func NewBitReader(r io.Reader) *BitReader {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &BitReader{r: br}
}

// fill ensures at least need valid bits are buffered, pulling further
// bytes from the source as required. Reads past the end of the payload
// are treated as zero bits; the first such short read is latched into
// err so callers can detect it once real data has been exhausted.
func (b *BitReader) fill(need uint) {
	for b.bits < need {
		c, err := b.r.ReadByte()
		if err != nil {
			if b.err == nil {
				b.err = err
			}
			c = 0
		} else {
			b.bytesRead++
		}
		b.n = (b.n << 8) | uint64(c)
		b.bits += 8
	}
}

// PeekBits returns the next k bits (0 <= k <= 17) without advancing
// the cursor.
func (b *BitReader) PeekBits(k uint) uint32 {
	if k == 0 {
		return 0
	}
	b.fill(k)
	return uint32((b.n >> (b.bits - k)) & ((1 << k) - 1))
}

// ConsumeBits advances the cursor past k bits already made available
// by a prior PeekBits(k) (or any call that buffered at least k bits).
func (b *BitReader) ConsumeBits(k uint) {
	if k == 0 {
		return
	}
	b.fill(k)
	b.bits -= k
}

// ReadBits reads and consumes the next k bits (0 <= k <= 17).
func (b *BitReader) ReadBits(k uint) uint32 {
	v := b.PeekBits(k)
	b.ConsumeBits(k)
	return v
}

// ReadBitsRaw reads n bits (n <= 32) directly from the bit stream,
// bypassing the arithmetic decoder. Used for slot extra bits, which
// per spec §4.5/§4.4 are raw, not coded.
func (b *BitReader) ReadBitsRaw(n uint) uint32 {
	if n == 0 {
		return 0
	}
	if n <= 17 {
		return b.ReadBits(n)
	}
	hi := b.ReadBits(16)
	lo := b.ReadBits(n - 16)
	return hi<<(n-16) | lo
}

// ReadU16Raw reads a 16-bit value directly from the raw bit stream at
// whatever bit alignment follows the last consumed coded bit. This is
// how the inter-file checksum is read (spec §4.6): the arithmetic
// decoder's registers are never touched by this call.
func (b *BitReader) ReadU16Raw() uint16 {
	return uint16(b.ReadBitsRaw(16))
}

// Err returns the first error encountered, or nil. A short read past
// the end of the payload surfaces as ErrTruncatedInput, since a
// well-formed archive never runs the reader dry mid-stream (spec §7).
func (b *BitReader) Err() error {
	if b.err == io.EOF {
		return ErrTruncatedInput
	}
	return b.err
}

// BytesRead reports how many source bytes have been pulled in so far,
// counting only bytes actually delivered by the source (not the zero
// padding substituted past EOF).
func (b *BitReader) BytesRead() uint {
	return b.bytesRead
}
