// Package lossless implements the per-row predictor transform and the
// Huffman/RLE entropy back-end used by the lossless compression mode.
package lossless

// PredictorType selects the spatial predictor used to filter one row of
// pixel data before entropy coding.
type PredictorType uint8

const (
	PredictorNone PredictorType = iota
	PredictorSub
	PredictorUp
	PredictorAverage
	PredictorPaeth
)

// predictorFromByte maps a stored predictor tag back to a PredictorType,
// defaulting to PredictorNone for any unrecognized value.
func predictorFromByte(v uint8) PredictorType {
	switch v {
	case 1:
		return PredictorSub
	case 2:
		return PredictorUp
	case 3:
		return PredictorAverage
	case 4:
		return PredictorPaeth
	default:
		return PredictorNone
	}
}

// paethPredictor picks whichever of a, b, c is closest to a+b-c, preferring
// a on a tie with b and b on a tie with c.
func paethPredictor(a, b, c uint8) uint8 {
	ai, bi, ci := int32(a), int32(b), int32(c)
	p := ai + bi - ci
	pa := absI32(p - ai)
	pb := absI32(p - bi)
	pc := absI32(p - ci)
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func predict(predictor PredictorType, left, up, upLeft uint8) uint8 {
	switch predictor {
	case PredictorSub:
		return left
	case PredictorUp:
		return up
	case PredictorAverage:
		return uint8((uint16(left) + uint16(up)) / 2)
	case PredictorPaeth:
		return paethPredictor(left, up, upLeft)
	default:
		return 0
	}
}

// neighbors returns the left, up, and up-left samples for position x within
// a row, given the previous row (nil for the first row).
func neighbors(row []uint8, prevRow []uint8, x, channels int) (left, up, upLeft uint8) {
	if x >= channels {
		left = row[x-channels]
	}
	if prevRow != nil {
		up = prevRow[x]
		if x >= channels {
			upLeft = prevRow[x-channels]
		}
	}
	return
}

// ApplyPredictor filters data (width*height*channels raw samples, row-major)
// with a single fixed predictor for every row, prefixing each row with a
// one-byte predictor tag. The output is len(data)+height bytes.
func ApplyPredictor(data []uint8, width, height, channels int, predictor PredictorType) []uint8 {
	stride := width * channels
	filtered := make([]uint8, len(data)+height)
	outIdx := 0

	for y := 0; y < height; y++ {
		filtered[outIdx] = uint8(predictor)
		outIdx++
		rowStart := y * stride
		row := data[rowStart : rowStart+stride]
		var prevRow []uint8
		if y > 0 {
			prevRow = data[rowStart-stride : rowStart]
		}
		for x := 0; x < stride; x++ {
			left, up, upLeft := neighbors(row, prevRow, x, channels)
			prediction := predict(predictor, left, up, upLeft)
			filtered[outIdx] = row[x] - prediction
			outIdx++
		}
	}
	return filtered
}

// ReversePredictor undoes ApplyPredictor/ApplyOptimalPredictor, reading the
// per-row predictor tag and reconstructing raw samples in place.
func ReversePredictor(filtered []uint8, width, height, channels int) ([]uint8, error) {
	stride := width * channels
	data := make([]uint8, width*height*channels)
	inIdx := 0

	for y := 0; y < height; y++ {
		if inIdx >= len(filtered) {
			return nil, ErrTruncatedRow
		}
		predictor := predictorFromByte(filtered[inIdx])
		inIdx++
		rowStart := y * stride
		row := data[rowStart : rowStart+stride]
		var prevRow []uint8
		if y > 0 {
			prevRow = data[rowStart-stride : rowStart]
		}
		for x := 0; x < stride; x++ {
			if inIdx >= len(filtered) {
				return nil, ErrTruncatedRow
			}
			delta := filtered[inIdx]
			inIdx++
			left, up, upLeft := neighbors(row, prevRow, x, channels)
			prediction := predict(predictor, left, up, upLeft)
			row[x] = delta + prediction
		}
	}
	return data, nil
}

var allPredictors = [5]PredictorType{
	PredictorNone, PredictorSub, PredictorUp, PredictorAverage, PredictorPaeth,
}

// SelectOptimalPredictor scores every predictor over a single row against
// its previous row (nil for the first row) by summed wrapped-to-small-magnitude
// residual, and returns whichever scores lowest.
func SelectOptimalPredictor(row []uint8, prevRow []uint8, channels int) PredictorType {
	best := PredictorNone
	bestScore := int(^uint(0) >> 1) // max int

	for _, predictor := range allPredictors {
		score := 0
		for x, raw := range row {
			left, up, upLeft := neighbors(row, prevRow, x, channels)
			prediction := predict(predictor, left, up, upLeft)
			delta := raw - prediction
			var absDelta int
			if delta > 127 {
				absDelta = 256 - int(delta)
			} else {
				absDelta = int(delta)
			}
			score += absDelta
		}
		if score < bestScore {
			bestScore = score
			best = predictor
		}
	}
	return best
}

// ApplyOptimalPredictor filters data row by row, choosing the best-scoring
// predictor independently for each row via SelectOptimalPredictor. This is
// the encoder's entry point into the lossless spatial-prediction stage.
func ApplyOptimalPredictor(data []uint8, width, height, channels int) []uint8 {
	stride := width * channels
	filtered := make([]uint8, len(data)+height)
	outIdx := 0

	for y := 0; y < height; y++ {
		rowStart := y * stride
		row := data[rowStart : rowStart+stride]
		var prevRow []uint8
		if y > 0 {
			prevRow = data[rowStart-stride : rowStart]
		}

		predictor := SelectOptimalPredictor(row, prevRow, channels)
		filtered[outIdx] = uint8(predictor)
		outIdx++

		for x, raw := range row {
			left, up, upLeft := neighbors(row, prevRow, x, channels)
			prediction := predict(predictor, left, up, upLeft)
			filtered[outIdx] = raw - prediction
			outIdx++
		}
	}
	return filtered
}
