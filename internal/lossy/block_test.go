package lossy

import (
	"testing"

	"github.com/cowoksoftspoken/wk/internal/dsp"
)

func TestPadPlaneRoundsUpToBlockMultiple(t *testing.T) {
	p := Plane{Width: 10, Height: 6, Data: make([]uint8, 60)}
	data, pw, ph := padPlane(p)
	if pw != 16 || ph != 8 {
		t.Fatalf("padded dims = (%d,%d), want (16,8)", pw, ph)
	}
	if len(data) != pw*ph {
		t.Fatalf("padded buffer len = %d, want %d", len(data), pw*ph)
	}
}

func TestPadPlaneEdgeReplication(t *testing.T) {
	p := Plane{Width: 3, Height: 2, Data: []uint8{
		1, 2, 3,
		4, 5, 6,
	}}
	data, pw, ph := padPlane(p)
	if pw != 8 || ph != 8 {
		t.Fatalf("padded dims = (%d,%d), want (8,8)", pw, ph)
	}
	// last real column (value 3) should be replicated across the row's padding.
	for x := 2; x < pw; x++ {
		if data[x] != 3 {
			t.Fatalf("row 0 col %d = %d, want replicated 3", x, data[x])
		}
	}
	// last real row (values 4,5,6) should be replicated downward.
	for y := 2; y < ph; y++ {
		row := data[y*pw : y*pw+3]
		want := []uint8{4, 5, 6}
		for i, v := range row {
			if v != want[i] {
				t.Fatalf("row %d col %d = %d, want %d", y, i, v, want[i])
			}
		}
	}
}

func TestCropPlaneInvertsPadPlane(t *testing.T) {
	p := Plane{Width: 5, Height: 7, Data: make([]uint8, 35)}
	for i := range p.Data {
		p.Data[i] = uint8(i % 251)
	}
	padded, pw, _ := padPlane(p)
	cropped := cropPlane(padded, pw, p.Width, p.Height)
	if len(cropped) != len(p.Data) {
		t.Fatalf("cropped len = %d, want %d", len(cropped), len(p.Data))
	}
	for i := range p.Data {
		if cropped[i] != p.Data[i] {
			t.Fatalf("byte %d = %d, want %d", i, cropped[i], p.Data[i])
		}
	}
}

func TestGetSetBlockRoundTrip(t *testing.T) {
	pw, ph := 16, 16
	padded := make([]uint8, pw*ph)
	for i := range padded {
		padded[i] = uint8(i)
	}
	blk := getBlock(padded, pw, 1, 0)
	samples := blockToSamples(blk)

	dst := make([]uint8, pw*ph)
	setBlock(dst, pw, 1, 0, samples)

	got := getBlock(dst, pw, 1, 0)
	if *got != *blk {
		t.Fatalf("round trip mismatch: got %v, want %v", got, blk)
	}
}

func TestTopRowLeftColNilAtOrigin(t *testing.T) {
	padded := make([]uint8, 16*16)
	if topRow(padded, 16, 16, 0, 0) != nil {
		t.Fatalf("topRow at by=0 should be nil")
	}
	if leftCol(padded, 16, 16, 0, 0) != nil {
		t.Fatalf("leftCol at bx=0 should be nil")
	}
	if topLeftSample(padded, 16, 0, 0) != 128 {
		t.Fatalf("topLeftSample at origin should default to 128")
	}
}

func TestTopRowLeftColPresentAwayFromOrigin(t *testing.T) {
	pw, ph := 16, 16
	padded := make([]uint8, pw*ph)
	for i := range padded {
		padded[i] = uint8(i % 200)
	}
	if topRow(padded, pw, ph, 1, 1) == nil {
		t.Fatalf("topRow at by=1 should not be nil")
	}
	if leftCol(padded, pw, ph, 1, 1) == nil {
		t.Fatalf("leftCol at bx=1 should not be nil")
	}
	got := topLeftSample(padded, pw, 1, 1)
	want := padded[(8-1)*pw+(8-1)]
	if got != want {
		t.Fatalf("topLeftSample = %d, want %d", got, want)
	}
}

func TestSamplesFromResidualCopiesValues(t *testing.T) {
	var blk dsp.Block
	for i := range blk {
		blk[i] = int16(i - 32)
	}
	out := samplesFromResidual(&blk)
	for i, v := range out {
		if v != blk[i] {
			t.Fatalf("residual sample %d = %d, want %d", i, v, blk[i])
		}
	}
}

func TestPadDimensionExactMultipleUnchanged(t *testing.T) {
	if padDimension(8) != 8 {
		t.Fatalf("padDimension(8) = %d, want 8", padDimension(8))
	}
	if padDimension(16) != 16 {
		t.Fatalf("padDimension(16) = %d, want 16", padDimension(16))
	}
	if padDimension(9) != 16 {
		t.Fatalf("padDimension(9) = %d, want 16", padDimension(9))
	}
}

func TestClampInt(t *testing.T) {
	if clampInt(-5, 0, 10) != 0 {
		t.Fatalf("clampInt below range failed")
	}
	if clampInt(15, 0, 10) != 10 {
		t.Fatalf("clampInt above range failed")
	}
	if clampInt(5, 0, 10) != 5 {
		t.Fatalf("clampInt inside range failed")
	}
}
