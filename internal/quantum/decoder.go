package quantum

import (
	"fmt"
	"io"
)

// Selector symbols (spec §4.5). Values 0-3 select which literal model
// covers the next byte; 4-6 select a match class; 7 is allocated by
// the 8-symbol selector alphabet but never intentionally produced by
// a well-formed encoder — there is no dedicated EOF symbol, and
// termination is purely byte-count driven, so decoding 7 is treated
// as stream corruption.
const (
	selL0 = iota
	selL1
	selL2
	selL3
	selM2
	selM3
	selMx
	selReserved
)

const numSelectors = 8
const literalsPerModel = 64

// state tracks the lifecycle spec §4.8 describes: a decoder moves
// from Initialized through InFile/BetweenFiles pairs as the caller
// drains files, and to Done once the caller is finished with the
// archive. Models, window and range-coder registers are never reset
// along the way.
type state int

const (
	stateInitialized state = iota
	stateInFile
	stateBetweenFiles
	stateDone
)

// Decoder is the QuantumDecoder orchestrator (spec §2 item 7, §3): it
// owns the range decoder, all nine adaptive models and the sliding
// window for the lifetime of one archive, and drains one file at a
// time without resetting any of that state across file boundaries.
// The dispatch loop is grounded on the teacher's readBlock/read
// pairing (decode a token, act on it, loop until a boundary) and on
// the LZX decompressor's selector-driven literal/match dispatch
// (readCompressedBlock in the vendored WIM lzx.go).
type Decoder struct {
	state state
	win   *window
	br    *BitReader
	rd    *rangeDecoder

	selector *model
	literals [4]*model
	match2   *model
	match3   *model
	matchx   *model
	length   *model

	fileIndex int
}

// NewDecoder initializes a QuantumDecoder over r with the given
// window exponent (spec §4.7 validates tableSize ∈ [10,21] before
// this is called; it is re-checked here since the core must not trust
// an out-of-band caller).
func NewDecoder(r io.Reader, windowExponent uint) (*Decoder, error) {
	if windowExponent < 10 || windowExponent > 21 {
		return nil, ErrBadTableSize
	}
	br := NewBitReader(r)
	d := &Decoder{
		br:       br,
		win:      newWindow(windowExponent),
		selector: newModel(numSelectors),
		match2:   newModel(len(positionSlots)),
		match3:   newModel(len(positionSlots)),
		matchx:   newModel(len(positionSlots)),
		length:   newModel(len(lengthSlots)),
		state:    stateInitialized,
	}
	for i := range d.literals {
		d.literals[i] = newModel(literalsPerModel)
	}
	d.rd = newRangeDecoder(br)
	return d, nil
}

// DecodeFile drains exactly declaredLength bytes through the window,
// then reads the trailing 16-bit checksum directly from the raw bit
// stream (spec §4.6) and compares it against the bytes just emitted.
// A mismatch is reported as *ChecksumMismatchError, which is not a
// fatal error: model and coder state remain fully valid and the
// caller may continue on to the next file (spec §7).
func (d *Decoder) DecodeFile(declaredLength uint32) ([]byte, error) {
	if d.state == stateDone {
		return nil, fmt.Errorf("quantum: DecodeFile called after Finalize")
	}
	d.state = stateInFile

	out := make([]byte, 0, declaredLength)
	var fc checksum
	remaining := declaredLength

	emit := func(b byte) {
		d.win.putByte(b)
		fc.update(b)
		out = append(out, b)
	}

	for remaining > 0 {
		sel, err := d.selector.decode(d.rd)
		if err != nil {
			return out, err
		}

		switch {
		case sel <= selL3:
			rank, err := d.literals[sel].decode(d.rd)
			if err != nil {
				return out, err
			}
			emit(byte(sel)*literalsPerModel + byte(rank))
			remaining--

		case sel == selM2 || sel == selM3:
			mdl := d.match2
			length := uint32(3)
			if sel == selM3 {
				mdl = d.match3
				length = 4
			}
			offset, err := d.decodePosition(mdl)
			if err != nil {
				return out, err
			}
			if length > remaining {
				return out, ErrMatchExceedsRemaining
			}
			if err := d.win.copyMatch(offset, length, emit); err != nil {
				return out, err
			}
			remaining -= length

		case sel == selMx:
			offset, err := d.decodePosition(d.matchx)
			if err != nil {
				return out, err
			}
			lenRank, err := d.length.decode(d.rd)
			if err != nil {
				return out, err
			}
			ls := lengthSlots[lenRank]
			length := ls.base + d.rd.readRawBits(uint(ls.extraBits))
			if length > remaining {
				return out, ErrMatchExceedsRemaining
			}
			if err := d.win.copyMatch(offset, length, emit); err != nil {
				return out, err
			}
			remaining -= length

		default:
			return out, ErrReservedSelector
		}

		if err := d.br.Err(); err != nil {
			return out, err
		}
	}

	embedded := d.br.ReadU16Raw()
	if err := d.br.Err(); err != nil {
		return out, err
	}
	d.state = stateBetweenFiles
	idx := d.fileIndex
	d.fileIndex++

	if got := fc.value(); got != embedded {
		return out, &ChecksumMismatchError{FileIndex: idx, Expected: embedded, Got: got}
	}
	return out, nil
}

// decodePosition decodes a position-slot rank from mdl and resolves
// it to a full back-reference distance via the slot's extra bits
// (spec §4.4/§4.5).
func (d *Decoder) decodePosition(mdl *model) (uint32, error) {
	rank, err := mdl.decode(d.rd)
	if err != nil {
		return 0, err
	}
	ps := positionSlots[rank]
	return ps.base + d.rd.readRawBits(uint(ps.extraBits)), nil
}

// Finalize marks the decoder Done. No resources are held beyond Go's
// own GC-managed allocations, so this only updates the lifecycle
// state (spec §4.8).
func (d *Decoder) Finalize() {
	d.state = stateDone
}

// ChecksumMismatchError reports a per-file checksum disagreement. It
// is deliberately not used as a sentinel value (errors.Is) since
// callers need the fields; use errors.As.
type ChecksumMismatchError struct {
	FileIndex     int
	Expected, Got uint16
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("quantum: file %d checksum mismatch: expected %04x, got %04x", e.FileIndex, e.Expected, e.Got)
}
