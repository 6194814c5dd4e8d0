package dsp

import "testing"

func TestDeblockQualityGate(t *testing.T) {
	c := DeblockConfigFromQuality(97)
	if !c.NoOp {
		t.Fatal("quality 97 should disable deblocking")
	}
	c = DeblockConfigFromQuality(96)
	if c.NoOp {
		t.Fatal("quality 96 should not disable deblocking")
	}
}

func TestDeblockNoOpIdentical(t *testing.T) {
	c := DeblockConfigFromQuality(99)
	data := make([]uint8, 16*16)
	for i := range data {
		data[i] = uint8(i % 7 * 30)
	}
	orig := append([]uint8(nil), data...)
	c.ApplyChannel(data, 16, 16)
	for i := range data {
		if data[i] != orig[i] {
			t.Fatalf("no-op deblock changed byte %d: %d != %d", i, data[i], orig[i])
		}
	}
}

func TestDeblockIdempotentOnFlatRegion(t *testing.T) {
	c := DeblockConfigFromQuality(75)
	data := make([]uint8, 16*16)
	for i := range data {
		data[i] = 128
	}
	c.ApplyChannel(data, 16, 16)
	for _, v := range data {
		if v != 128 {
			t.Fatalf("deblock moved a flat-region pixel to %d", v)
		}
	}
}

func TestDeblockDoesNotGrowBoundaryDiscontinuity(t *testing.T) {
	c := DeblockConfigFromQuality(75)
	data := make([]uint8, 16*16)
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			data[y*16+x] = 100
		}
	}
	for y := 8; y < 16; y++ {
		for x := 0; x < 16; x++ {
			data[y*16+x] = 150
		}
	}
	before := absInt(int(data[7*16]) - int(data[8*16]))
	c.Apply(data, 16, 16, 8)
	after := absInt(int(data[7*16]) - int(data[8*16]))
	if after > before {
		t.Errorf("boundary discontinuity grew: before=%d after=%d", before, after)
	}
}

func TestDeblockStaysInRange(t *testing.T) {
	c := DeblockConfigFromQuality(60)
	data := make([]uint8, 16*16)
	for i := range data {
		if i%2 == 0 {
			data[i] = 0
		} else {
			data[i] = 255
		}
	}
	c.ApplyChannel(data, 16, 16)
	for _, v := range data {
		if v > 255 {
			t.Fatal("pixel escaped [0,255]")
		}
	}
}
