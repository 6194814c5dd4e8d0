package dsp

import "math"

// IntraMode identifies one of the 11 directional/DC/planar/TM prediction modes.
type IntraMode uint8

const (
	ModeDC IntraMode = iota
	ModeHorizontal
	ModeVertical
	ModeDiagonalDownLeft
	ModeDiagonalDownRight
	ModeVerticalRight
	ModeHorizontalDown
	ModeVerticalLeft
	ModeHorizontalUp
	ModePlanar
	ModeTrueMotion
)

// AllModes lists every mode, in wire order (mode byte == index).
var AllModes = [11]IntraMode{
	ModeDC, ModeHorizontal, ModeVertical, ModeDiagonalDownLeft, ModeDiagonalDownRight,
	ModeVerticalRight, ModeHorizontalDown, ModeVerticalLeft, ModeHorizontalUp, ModePlanar, ModeTrueMotion,
}

// SafeEdgeModes are the only modes permitted for blocks lacking reliable
// top and/or left neighbors (bx==0 or by==0).
var SafeEdgeModes = [3]IntraMode{ModeDC, ModeHorizontal, ModeVertical}

// IsEdgeBlock reports whether a block at (bx,by) lacks a full neighborhood.
func IsEdgeBlock(bx, by int) bool {
	return bx == 0 || by == 0
}

// IntraPredictor predicts an NxN block from up to 2N samples above, 2N to
// the left, and a single top-left corner sample; absent neighbors are
// substituted by 128.
type IntraPredictor struct {
	size int
}

// NewIntraPredictor creates a predictor for an NxN block.
func NewIntraPredictor(size int) IntraPredictor {
	if size < 1 {
		size = 1
	}
	return IntraPredictor{size: size}
}

func safeNeighbors(src []uint8, n int) []uint8 {
	safe := make([]uint8, n*2)
	for i := range safe {
		safe[i] = 128
	}
	copy(safe, src)
	return safe
}

func at(s []uint8, i int, fallback uint8) uint8 {
	if i < 0 || i >= len(s) {
		return fallback
	}
	return s[i]
}

// Predict computes the NxN prediction buffer (row-major) for mode, given
// up to 2N samples above (top), 2N to the left (left), and the corner
// sample top-left.
func (p IntraPredictor) Predict(mode IntraMode, top, left []uint8, topLeft uint8) []uint8 {
	n := p.size
	pred := make([]uint8, n*n)
	for i := range pred {
		pred[i] = 128
	}
	top = safeNeighbors(top, n)
	left = safeNeighbors(left, n)

	switch mode {
	case ModeDC:
		var sumTop, sumLeft uint32
		for i := 0; i < n; i++ {
			sumTop += uint32(top[i])
			sumLeft += uint32(left[i])
		}
		dc := uint8((sumTop + sumLeft + uint32(n)) / uint32(2*n))
		for i := range pred {
			pred[i] = dc
		}
	case ModeHorizontal:
		for y := 0; y < n; y++ {
			v := left[y]
			for x := 0; x < n; x++ {
				pred[y*n+x] = v
			}
		}
	case ModeVertical:
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				pred[y*n+x] = top[x]
			}
		}
	case ModeDiagonalDownLeft:
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				idx := x + y + 1
				a := at(top, idx, 128)
				b := at(top, idx+1, a)
				pred[y*n+x] = uint8((uint16(a) + uint16(b) + 1) / 2)
			}
		}
	case ModeDiagonalDownRight:
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				var v uint8
				switch {
				case x > y:
					v = at(top, x-y-1, 128)
				case x < y:
					v = at(left, y-x-1, 128)
				default:
					v = topLeft
				}
				pred[y*n+x] = v
			}
		}
	case ModeVerticalRight:
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				idx := x - y/2
				var v uint8
				if idx >= 0 {
					v = at(top, idx, 128)
				} else {
					v = at(left, -idx-1, 128)
				}
				pred[y*n+x] = v
			}
		}
	case ModeHorizontalDown:
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				idx := y - x/2
				var v uint8
				if idx >= 0 {
					v = at(left, idx, 128)
				} else {
					v = at(top, -idx-1, 128)
				}
				pred[y*n+x] = v
			}
		}
	case ModeVerticalLeft:
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				idx := x + y/2
				a := at(top, idx, 128)
				b := at(top, idx+1, a)
				if y%2 == 0 {
					pred[y*n+x] = a
				} else {
					pred[y*n+x] = uint8((uint16(a) + uint16(b) + 1) / 2)
				}
			}
		}
	case ModeHorizontalUp:
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				idx := y + x/2
				a := at(left, idx, 128)
				b := at(left, idx+1, a)
				if x%2 == 0 {
					pred[y*n+x] = a
				} else {
					pred[y*n+x] = uint8((uint16(a) + uint16(b) + 1) / 2)
				}
			}
		}
	case ModePlanar:
		tr := int32(at(top, n-1, 128))
		bl := int32(at(left, n-1, 128))
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				t := int32(top[x])
				l := int32(left[y])
				h := int32(n-1-x)*l + int32(x+1)*tr
				v := int32(n-1-y)*t + int32(y+1)*bl
				pred[y*n+x] = clampI32ToU8((h + v + int32(n)) / int32(2*n))
			}
		}
	case ModeTrueMotion:
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				t := int32(top[x])
				l := int32(left[y])
				pred[y*n+x] = clampI32ToU8(t + l - int32(topLeft))
			}
		}
	}
	return pred
}

// SelectBestMode chooses the minimum-SAD mode against block, restricting
// the candidate set to SafeEdgeModes for edge blocks per spec contract.
func (p IntraPredictor) SelectBestMode(block, top, left []uint8, topLeft uint8, isFirstRow, isFirstCol bool) (IntraMode, uint64) {
	candidates := AllModes[:]
	if isFirstRow || isFirstCol {
		candidates = SafeEdgeModes[:]
	}
	best := ModeDC
	bestSAD := uint64(math.MaxUint64)
	for _, mode := range candidates {
		pred := p.Predict(mode, top, left, topLeft)
		var sad uint64
		for i, v := range block {
			sad += uint64(absInt(int(v) - int(pred[i])))
		}
		if sad < bestSAD {
			bestSAD = sad
			best = mode
		}
	}
	return best, bestSAD
}

// ComputeResidual returns block-prediction as signed 16-bit samples.
func ComputeResidual(block, prediction []uint8) []int16 {
	out := make([]int16, len(block))
	for i := range block {
		out[i] = int16(block[i]) - int16(prediction[i])
	}
	return out
}

// Reconstruct adds residual back onto prediction, clamping to [0,255].
func Reconstruct(prediction []uint8, residual []int16) []uint8 {
	out := make([]uint8, len(prediction))
	for i := range prediction {
		out[i] = clampI32ToU8(int32(prediction[i]) + int32(residual[i]))
	}
	return out
}

func clampI32ToU8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
