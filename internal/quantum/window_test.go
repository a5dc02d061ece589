package quantum

import "testing"

func TestWindowPutByteWraps(t *testing.T) {
	w := newWindow(2) // 4-byte window
	for _, b := range []byte{1, 2, 3, 4, 5} {
		w.putByte(b)
	}
	want := []byte{5, 2, 3, 4}
	for i, b := range want {
		if w.buf[i] != b {
			t.Fatalf("buf[%d] = %d, want %d (after wraparound write)", i, w.buf[i], b)
		}
	}
}

func TestWindowCopyMatchRejectsZeroOffset(t *testing.T) {
	w := newWindow(4)
	w.putByte('a')
	if err := w.copyMatch(0, 1, func(byte) {}); err != ErrWindowOutOfBounds {
		t.Fatalf("copyMatch(0, ...) error = %v, want ErrWindowOutOfBounds", err)
	}
}

func TestWindowCopyMatchRejectsOffsetBeyondFilled(t *testing.T) {
	w := newWindow(4)
	w.putByte('a')
	if err := w.copyMatch(2, 1, func(byte) {}); err != ErrWindowOutOfBounds {
		t.Fatalf("copyMatch(2, ...) with only 1 byte filled error = %v, want ErrWindowOutOfBounds", err)
	}
}

func TestWindowCopyMatchRejectsOffsetEqualToFullSize(t *testing.T) {
	w := newWindow(2) // 4-byte window
	for _, b := range []byte("abcd") {
		w.putByte(b)
	}
	if err := w.copyMatch(4, 1, func(byte) {}); err != ErrWindowOutOfBounds {
		t.Fatalf("copyMatch(4, ...) on a full 4-byte window error = %v, want ErrWindowOutOfBounds", err)
	}
}

func TestWindowCopyMatchOverlappingRunLength(t *testing.T) {
	w := newWindow(4) // 16-byte window
	for _, b := range []byte("ab") {
		w.putByte(b)
	}
	// offset=1, length=6 from "ab" must reproduce run-length repetition
	// of the final byte: a b b b b b b b
	var got []byte
	if err := w.copyMatch(1, 6, func(b byte) { got = append(got, b) }); err != nil {
		t.Fatalf("copyMatch: %v", err)
	}
	want := []byte("bbbbbb")
	if string(got) != string(want) {
		t.Fatalf("copyMatch emitted %q, want %q", got, want)
	}
}

func TestWindowCopyMatchNonOverlapping(t *testing.T) {
	w := newWindow(4)
	for _, b := range []byte("abcd") {
		w.putByte(b)
	}
	var got []byte
	if err := w.copyMatch(4, 4, func(b byte) { got = append(got, b) }); err != nil {
		t.Fatalf("copyMatch: %v", err)
	}
	if string(got) != "abcd" {
		t.Fatalf("copyMatch emitted %q, want %q", got, "abcd")
	}
}
