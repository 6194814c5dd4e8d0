package bitio

import "testing"

func TestExpGolombRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 2, 3, 7, 15, 31, 100, 255}
	w := NewWriter(64)
	for _, v := range values {
		w.WriteExpGolomb(v)
	}
	data := w.Flush()

	r := NewReader(data)
	for _, want := range values {
		got, err := r.ReadExpGolomb()
		if err != nil {
			t.Fatalf("ReadExpGolomb: %v", err)
		}
		if got != want {
			t.Errorf("ReadExpGolomb = %d, want %d", got, want)
		}
	}
}

func TestBitsRoundTrip(t *testing.T) {
	w := NewWriter(16)
	w.WriteBits(0xAB, 8)
	w.WriteBits(0x1234, 16)
	w.WriteBit(1)
	w.WriteBit(0)
	data := w.Flush()

	r := NewReader(data)
	if v, _ := r.ReadBits(8); v != 0xAB {
		t.Errorf("byte = %#x, want 0xAB", v)
	}
	if v, _ := r.ReadBits(16); v != 0x1234 {
		t.Errorf("word = %#x, want 0x1234", v)
	}
	if b, _ := r.ReadBit(); b != 1 {
		t.Errorf("bit0 = %d, want 1", b)
	}
	if b, _ := r.ReadBit(); b != 0 {
		t.Errorf("bit1 = %d, want 0", b)
	}
}

func TestReadTruncated(t *testing.T) {
	r := NewReader(nil)
	if _, err := r.ReadBit(); err != ErrTruncated {
		t.Errorf("err = %v, want ErrTruncated", err)
	}
}
