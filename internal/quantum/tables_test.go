package quantum

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPositionSlotsShape(t *testing.T) {
	if len(positionSlots) != 42 {
		t.Fatalf("len(positionSlots) = %d, want 42", len(positionSlots))
	}
	if positionSlots[0].base != 1 {
		t.Fatalf("positionSlots[0].base = %d, want 1", positionSlots[0].base)
	}
	assertSlotsMonotoneAndContiguous(t, positionSlots)

	last := positionSlots[len(positionSlots)-1]
	maxOffset := last.base + (uint32(1)<<last.extraBits - 1)
	if want := uint32(1) << 21; maxOffset != want {
		t.Fatalf("max representable offset = %d, want %d (2^21)", maxOffset, want)
	}
}

func TestLengthSlotsShape(t *testing.T) {
	if len(lengthSlots) != 27 {
		t.Fatalf("len(lengthSlots) = %d, want 27", len(lengthSlots))
	}
	if lengthSlots[0].base != 3 {
		t.Fatalf("lengthSlots[0].base = %d, want 3", lengthSlots[0].base)
	}
	assertSlotsMonotoneAndContiguous(t, lengthSlots)
}

// TestLengthSlotsExact pins the full table against an independently
// written literal, rather than just checking shape, catching a wrong
// extraBits progression that would still happen to be contiguous.
func TestLengthSlotsExact(t *testing.T) {
	want := []slot{
		{3, 0}, {4, 0}, {5, 0}, {6, 0}, {7, 0}, {8, 0}, {9, 0},
		{10, 1}, {12, 1}, {14, 1}, {16, 1},
		{18, 2}, {22, 2}, {26, 2}, {30, 2},
		{34, 3}, {42, 3}, {50, 3}, {58, 3},
		{66, 4}, {82, 4}, {98, 4}, {114, 4},
		{130, 5}, {162, 5}, {194, 5}, {226, 5},
	}
	if diff := cmp.Diff(want, lengthSlots, cmp.AllowUnexported(slot{})); diff != "" {
		t.Fatalf("lengthSlots mismatch (-want +got):\n%s", diff)
	}
}

// assertSlotsMonotoneAndContiguous checks that each slot's base
// immediately follows the previous slot's maximum representable
// value, so every base+extraBits combination reachable by the format
// maps to exactly one offset or length with no gaps or overlaps.
func assertSlotsMonotoneAndContiguous(t *testing.T, slots []slot) {
	t.Helper()
	for i := 1; i < len(slots); i++ {
		prev := slots[i-1]
		prevMax := prev.base + (uint32(1)<<prev.extraBits - 1)
		if slots[i].base != prevMax+1 {
			t.Fatalf("slot %d base = %d, want %d (immediately after slot %d's max %d)", i, slots[i].base, prevMax+1, i-1, prevMax)
		}
	}
}
