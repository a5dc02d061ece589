package quantum

// slot pairs a coarse index with the number of raw extra bits needed
// to refine it into a full value: value = base + readBitsRaw(extraBits).
// Grounded on the (base, extraBits)-per-slot shape of LZX's position
// table (basePosition/footerBits in the WIM LZX decompressor), with
// Quantum's own slot counts and extra-bit progression (spec §4.4).
type slot struct {
	base      uint32
	extraBits uint8
}

// positionSlots has 42 entries covering back-reference distances from
// 1 up to 2^21, with extraBits climbing from 0 to 19 in pairs after an
// initial run of four zero-extra slots — the same doubling-pairs
// progression DEFLATE and LZX both use for their distance codes.
var positionSlots = buildSlots(1, []uint8{
	0, 0, 0, 0,
	1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13, 14, 14,
	15, 15, 16, 16, 17, 17, 18, 18, 19, 19,
})

// lengthSlots has 27 entries covering match lengths from 3 upward,
// with extraBits climbing from 0 to 5.
var lengthSlots = buildSlots(3, []uint8{
	0, 0, 0, 0, 0, 0, 0,
	1, 1, 1, 1,
	2, 2, 2, 2,
	3, 3, 3, 3,
	4, 4, 4, 4,
	5, 5, 5, 5,
})

// buildSlots derives the base value of each slot from the running sum
// of the preceding slots' coverage, given the first slot's base and
// the per-slot extra-bit counts.
func buildSlots(firstBase uint32, extra []uint8) []slot {
	slots := make([]slot, len(extra))
	base := firstBase
	for i, e := range extra {
		slots[i] = slot{base: base, extraBits: e}
		base += 1 << e
	}
	return slots
}

func init() {
	if len(positionSlots) != 42 {
		panic("quantum: positionSlots must have 42 entries")
	}
	if len(lengthSlots) != 27 {
		panic("quantum: lengthSlots must have 27 entries")
	}
}
