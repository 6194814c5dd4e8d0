package dsp

// JPEGLuma and JPEGChroma are the JPEG-derived base quantization tables in
// natural (non-zig-zag) raster order.
var JPEGLuma = [64]uint16{
	16, 11, 10, 16, 24, 40, 51, 61, 12, 12, 14, 19, 26, 58, 60, 55, 14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62, 18, 22, 37, 56, 68, 109, 103, 77, 24, 35, 55, 64, 81, 104, 113,
	92, 49, 64, 78, 87, 103, 121, 120, 101, 72, 92, 95, 98, 112, 100, 103, 99,
}

var JPEGChroma = [64]uint16{
	17, 18, 24, 47, 99, 99, 99, 99, 18, 21, 26, 66, 99, 99, 99, 99, 24, 26, 56, 99, 99, 99, 99, 99,
	47, 66, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99, 99,
}

// CSFWeights is a fixed contrast-sensitivity weighting, one entry per
// frequency position, weighting perceptually important low frequencies
// more heavily.
var CSFWeights = [64]float64{
	1.0, 0.98, 0.93, 0.85, 0.75, 0.63, 0.52, 0.42, 0.98, 0.95, 0.88, 0.78, 0.67, 0.55, 0.45, 0.36,
	0.93, 0.88, 0.80, 0.70, 0.59, 0.48, 0.39, 0.31, 0.85, 0.78, 0.70, 0.60, 0.50, 0.41, 0.33, 0.26,
	0.75, 0.67, 0.59, 0.50, 0.42, 0.34, 0.27, 0.22, 0.63, 0.55, 0.48, 0.41, 0.34, 0.28, 0.22, 0.18,
	0.52, 0.45, 0.39, 0.33, 0.27, 0.22, 0.18, 0.14, 0.42, 0.36, 0.31, 0.26, 0.22, 0.18, 0.14, 0.11,
}

// QuantTable holds 64 divisors, one per frequency position.
type QuantTable struct {
	Table [64]uint16
}

func qualityScale(quality uint8) uint32 {
	q := uint32(clampU8(quality, 1, 100))
	if q < 50 {
		return 5000 / q
	}
	return 200 - q*2
}

// QuantTableForQuality scales a JPEG base table by quality per the standard
// IJG scale formula: scale = q<50 ? 5000/q : 200-2q, entries clamped to [1,255].
func QuantTableForQuality(quality uint8, isChroma bool) QuantTable {
	base := &JPEGLuma
	if isChroma {
		base = &JPEGChroma
	}
	scale := qualityScale(quality)
	var t QuantTable
	for i := 0; i < 64; i++ {
		val := (uint32(base[i])*scale + 50) / 100
		t.Table[i] = uint16(clampU32(val, 1, 255))
	}
	return t
}

// QuantTableLossless returns the identity table (every entry 1).
func QuantTableLossless() QuantTable {
	var t QuantTable
	for i := range t.Table {
		t.Table[i] = 1
	}
	return t
}

// QuantTableWithCSF scales a JPEG base table by quality, first boosting
// each entry by a CSF-derived factor favoring low frequencies.
func QuantTableWithCSF(quality uint8, isChroma bool) QuantTable {
	base := &JPEGLuma
	if isChroma {
		base = &JPEGChroma
	}
	scale := qualityScale(quality)
	var t QuantTable
	for i := 0; i < 64; i++ {
		csfFactor := 1.0 + (1.0-CSFWeights[i])*0.5
		adjusted := uint32(float64(base[i]) * csfFactor)
		val := (adjusted*scale + 50) / 100
		t.Table[i] = uint16(clampU32(val, 1, 255))
	}
	return t
}

// BlockStats summarizes an 8x8 (or NxN) sample block for adaptive QP selection.
type BlockStats struct {
	Mean        float64
	Variance    float64
	Contrast    float64
	EdgeDensity float64
	IsExtreme   bool
}

// NeedsFallback reports whether stats are degenerate enough that adaptive QP
// should be bypassed in favor of the image's base QP.
func (s BlockStats) NeedsFallback() bool {
	return s.IsExtreme || s.Variance > 5000 || s.Variance < 1 || s.Mean < 5 || s.Mean > 250
}

// AdaptiveQuantizer derives a per-block QP and quant table around a base
// image quality, clamped to a +/-10 window.
type AdaptiveQuantizer struct {
	BaseQP       uint8
	MinQP, MaxQP uint8
	UseCSF       bool
}

// NewAdaptiveQuantizer builds a quantizer for the given base image quality.
func NewAdaptiveQuantizer(quality uint8) AdaptiveQuantizer {
	base := clampU8(quality, 1, 100)
	min := int(base) - 10
	if min < 1 {
		min = 1
	}
	max := int(base) + 10
	if max > 100 {
		max = 100
	}
	return AdaptiveQuantizer{BaseQP: base, MinQP: uint8(min), MaxQP: uint8(max), UseCSF: true}
}

// AnalyzeBlock computes BlockStats over a size*size sample block in
// row-major order (e.g. a luma plane's 8x8 tile before prediction/residual).
func (aq AdaptiveQuantizer) AnalyzeBlock(block []uint8, size int) BlockStats {
	n := size * size
	if len(block) < n {
		return BlockStats{IsExtreme: true}
	}
	var sum, sumSq uint64
	minVal, maxVal := uint8(255), uint8(0)
	for _, p := range block[:n] {
		sum += uint64(p)
		sumSq += uint64(p) * uint64(p)
		if p < minVal {
			minVal = p
		}
		if p > maxVal {
			maxVal = p
		}
	}
	mean := float64(sum) / float64(n)
	variance := float64(sumSq)/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	contrast := float64(maxVal-minVal) / 255.0
	if maxVal < minVal {
		contrast = 0
	}

	edgeDensity := 0.0
	if size >= 2 {
		var edgeSum uint64
		for y := 1; y < size; y++ {
			for x := 1; x < size; x++ {
				curr := int(block[y*size+x])
				left := int(block[y*size+x-1])
				top := int(block[(y-1)*size+x])
				edgeSum += uint64(absInt(curr-left) + absInt(curr-top))
			}
		}
		edgeDensity = float64(edgeSum) / float64((size-1)*(size-1)*510)
	}

	return BlockStats{Mean: mean, Variance: variance, Contrast: contrast, EdgeDensity: edgeDensity}
}

// ComputeQP derives the per-block QP from stats, falling back to BaseQP on
// degenerate stats. The total adjustment is clamped to [-5,+5] before being
// applied and re-clamped to [MinQP, MaxQP].
func (aq AdaptiveQuantizer) ComputeQP(stats BlockStats) uint8 {
	if stats.NeedsFallback() {
		return aq.BaseQP
	}
	var adjust int
	if stats.Mean < 40 {
		adjust -= 2
	} else if stats.Mean > 215 {
		adjust -= 1
	}
	if stats.Variance < 50 {
		adjust += 2
	} else if stats.Variance > 1500 {
		adjust -= 2
	}
	if stats.EdgeDensity > 0.25 {
		adjust -= 2
	} else if stats.EdgeDensity < 0.03 {
		adjust += 1
	}
	if adjust < -5 {
		adjust = -5
	} else if adjust > 5 {
		adjust = 5
	}
	qp := int(aq.BaseQP) + adjust
	if qp < int(aq.MinQP) {
		qp = int(aq.MinQP)
	} else if qp > int(aq.MaxQP) {
		qp = int(aq.MaxQP)
	}
	return uint8(qp)
}

// GetTable returns the quant table for a computed QP, falling back to the
// plain (non-CSF) scaling outside [10,98] where the CSF boost can push
// entries out of their useful range.
func (aq AdaptiveQuantizer) GetTable(qp uint8, isChroma bool) QuantTable {
	if qp < 10 || qp > 98 {
		return QuantTableForQuality(qp, isChroma)
	}
	if aq.UseCSF {
		return QuantTableWithCSF(qp, isChroma)
	}
	return QuantTableForQuality(qp, isChroma)
}

// Quantize divides each coefficient by its table entry (integer truncation).
func Quantize(block *Block, table QuantTable) *Block {
	var out Block
	for i := 0; i < 64; i++ {
		t := int32(table.Table[i])
		if t < 1 {
			t = 1
		}
		out[i] = int16(int32(block[i]) / t)
	}
	return &out
}

// Dequantize multiplies each coefficient by its table entry, clamped to the
// signed 16-bit range.
func Dequantize(block *Block, table QuantTable) *Block {
	var out Block
	for i := 0; i < 64; i++ {
		val := int32(block[i]) * int32(table.Table[i])
		out[i] = int16(clampI32(val, -32768, 32767))
	}
	return &out
}

func clampU8(v uint8, lo, hi uint8) uint8 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampU32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
