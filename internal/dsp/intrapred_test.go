package dsp

import "testing"

func TestDCPrediction(t *testing.T) {
	p := NewIntraPredictor(8)
	top := make([]uint8, 8)
	left := make([]uint8, 8)
	for i := range top {
		top[i] = 100
		left[i] = 100
	}
	pred := p.Predict(ModeDC, top, left, 100)
	for _, v := range pred {
		if v != 100 {
			t.Fatalf("DC prediction = %d, want 100", v)
		}
	}
}

func TestEdgeBlockUsesSafeModes(t *testing.T) {
	p := NewIntraPredictor(8)
	block := make([]uint8, 64)
	top := make([]uint8, 8)
	left := make([]uint8, 8)
	for i := range block {
		block[i] = 128
	}
	for i := range top {
		top[i] = 128
		left[i] = 128
	}
	mode, _ := p.SelectBestMode(block, top, left, 128, true, false)
	found := false
	for _, m := range SafeEdgeModes {
		if m == mode {
			found = true
		}
	}
	if !found {
		t.Errorf("edge block selected mode %v, want one of SafeEdgeModes", mode)
	}
}

func TestResidualRoundTrip(t *testing.T) {
	block := make([]uint8, 64)
	for i := range block {
		block[i] = uint8(i * 4)
	}
	prediction := make([]uint8, 64)
	for i := range prediction {
		prediction[i] = 128
	}
	residual := ComputeResidual(block, prediction)
	reconstructed := Reconstruct(prediction, residual)
	for i := range block {
		if reconstructed[i] != block[i] {
			t.Fatalf("reconstruct(residual)[%d] = %d, want %d", i, reconstructed[i], block[i])
		}
	}
}

func TestPlanarMode(t *testing.T) {
	p := NewIntraPredictor(4)
	top := []uint8{10, 20, 30, 40, 50, 60, 70, 80}
	left := []uint8{10, 20, 30, 40, 50, 60, 70, 80}
	pred := p.Predict(ModePlanar, top, left, 10)
	if len(pred) != 16 {
		t.Fatalf("len(pred) = %d, want 16", len(pred))
	}
}

func TestTrueMotionMode(t *testing.T) {
	p := NewIntraPredictor(4)
	top := []uint8{50, 50, 50, 50}
	left := []uint8{50, 50, 50, 50}
	pred := p.Predict(ModeTrueMotion, top, left, 50)
	for _, v := range pred {
		if v != 50 {
			t.Errorf("TrueMotion flat prediction = %d, want 50", v)
		}
	}
}
