package quantum_test

import (
	"bytes"
	"testing"

	"github.com/dcarrero/unquantum/internal/quantum"
)

func TestBitReaderReadBits(t *testing.T) {
	// 0xB5 0x3C = 1011 0101 0011 1100
	br := quantum.NewBitReader(bytes.NewReader([]byte{0xB5, 0x3C}))

	if got := br.ReadBits(4); got != 0xB {
		t.Fatalf("ReadBits(4) = %#x, want 0xb", got)
	}
	if got := br.ReadBits(4); got != 0x5 {
		t.Fatalf("ReadBits(4) = %#x, want 0x5", got)
	}
	if got := br.ReadBits(8); got != 0x3C {
		t.Fatalf("ReadBits(8) = %#x, want 0x3c", got)
	}
	if err := br.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
}

func TestBitReaderPeekThenConsume(t *testing.T) {
	br := quantum.NewBitReader(bytes.NewReader([]byte{0xF0}))

	if peeked := br.PeekBits(4); peeked != 0xF {
		t.Fatalf("PeekBits(4) = %#x, want 0xf", peeked)
	}
	if peeked := br.PeekBits(4); peeked != 0xF {
		t.Fatalf("second PeekBits(4) = %#x, want 0xf (peek must not consume)", peeked)
	}
	br.ConsumeBits(4)
	if got := br.ReadBits(4); got != 0x0 {
		t.Fatalf("ReadBits(4) after consuming peeked bits = %#x, want 0x0", got)
	}
}

func TestBitReaderEOFPadsWithZeroAndLatchesError(t *testing.T) {
	br := quantum.NewBitReader(bytes.NewReader([]byte{0xFF}))

	br.ReadBits(8)
	if got := br.ReadBits(8); got != 0 {
		t.Fatalf("ReadBits past EOF = %#x, want 0 (zero padded)", got)
	}
	if err := br.Err(); err != quantum.ErrTruncatedInput {
		t.Fatalf("Err() = %v, want ErrTruncatedInput", err)
	}
}

func TestBitReaderReadBitsRawWideWidth(t *testing.T) {
	br := quantum.NewBitReader(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF}))

	got := br.ReadBitsRaw(20)
	want := uint32(0xFFFFF)
	if got != want {
		t.Fatalf("ReadBitsRaw(20) = %#x, want %#x", got, want)
	}
}

func TestBitReaderBytesRead(t *testing.T) {
	br := quantum.NewBitReader(bytes.NewReader([]byte{0x00, 0x00, 0x00}))
	br.ReadBits(20)
	if got := br.BytesRead(); got != 3 {
		t.Fatalf("BytesRead() = %d, want 3", got)
	}
}
