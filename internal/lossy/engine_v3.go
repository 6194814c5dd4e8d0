package lossy

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/cowoksoftspoken/wk/internal/dsp"
	"github.com/cowoksoftspoken/wk/internal/pool"
)

// channelBlocks holds one channel's planar layout during encode/decode:
// the padded reconstruction buffer plus its block grid dimensions.
type channelBlocks struct {
	padded         []uint8
	pw, ph         int
	blocksX, blocksY int
	isChroma       bool
	width, height  int
}

func newChannelBlocks(p Plane) *channelBlocks {
	padded, pw, ph := padPlane(p)
	return &channelBlocks{
		padded: padded, pw: pw, ph: ph,
		blocksX: pw / blockSize, blocksY: ph / blockSize,
		isChroma: p.IsChroma, width: p.Width, height: p.Height,
	}
}

func newChannelBlocksForDecode(d PlaneDims) *channelBlocks {
	pw, ph := padDimension(d.Width), padDimension(d.Height)
	// Every padded sample is written by setBlock before any block reads
	// it as a neighbor, so the pooled buffer's stale contents never leak
	// through.
	padded := pool.Get(pw * ph)
	return &channelBlocks{
		padded: padded, pw: pw, ph: ph,
		blocksX: pw / blockSize, blocksY: ph / blockSize,
		isChroma: d.IsChroma, width: d.Width, height: d.Height,
	}
}

func (c *channelBlocks) numBlocks() int { return c.blocksX * c.blocksY }

// pipelineFlags selects which lossy features are active; both the v3 and
// legacy wire variants drive the same per-block core with different flags.
type pipelineFlags struct {
	useRangeCoder      bool
	useIntraPrediction bool
	useAdaptiveQuant   bool
}

// EncodeV3 runs the full intra-prediction/adaptive-quant lossy pipeline over
// every plane and returns the complete wire payload (preamble, compressed
// length, deflated side-channel-plus-coefficient data).
func EncodeV3(planes []Plane, quality uint8, useRangeCoder, useIntraPrediction, useAdaptiveQuant bool) ([]byte, error) {
	flags := pipelineFlags{useRangeCoder, useIntraPrediction, useAdaptiveQuant}
	lumaTable := dsp.QuantTableForQuality(quality, false)
	chromaTable := dsp.QuantTableForQuality(quality, true)

	allData, err := encodeChannels(planes, quality, flags, lumaTable, chromaTable)
	if err != nil {
		return nil, err
	}

	preamble := make([]byte, preambleV3Size)
	if useRangeCoder {
		preamble[0] = 1
	}
	if useIntraPrediction {
		preamble[1] = 1
	}
	if useAdaptiveQuant {
		preamble[2] = 1
	}
	writeQuantTable(preamble[3:3+128], lumaTable)
	writeQuantTable(preamble[131:131+128], chromaTable)

	return wrapPayload(preamble, allData)
}

// encodeChannels runs the per-block transform/predict/quantize/entropy
// chain over every plane under a fixed flag set, returning the
// concatenated all_data side-channel-plus-coefficient buffer.
func encodeChannels(planes []Plane, quality uint8, flags pipelineFlags, lumaTable, chromaTable dsp.QuantTable) ([]byte, error) {
	aq := dsp.NewAdaptiveQuantizer(quality)
	predictor := dsp.NewIntraPredictor(blockSize)
	useRangeCoder, useIntraPrediction, useAdaptiveQuant := flags.useRangeCoder, flags.useIntraPrediction, flags.useAdaptiveQuant

	var allData []byte
	for _, p := range planes {
		cb := newChannelBlocks(p)
		baseTable := lumaTable
		if cb.isChroma {
			baseTable = chromaTable
		}

		modes := make([]byte, 0, cb.numBlocks())
		qps := make([]byte, 0, cb.numBlocks())
		coeffBlocks := make([]*dsp.Block, 0, cb.numBlocks())

		for by := 0; by < cb.blocksY; by++ {
			for bx := 0; bx < cb.blocksX; bx++ {
				block := getBlock(cb.padded, cb.pw, bx, by)
				samples := blockToSamples(block)

				var top, left []uint8
				var tl uint8 = 128
				if useIntraPrediction {
					top = topRow(cb.padded, cb.pw, cb.ph, bx, by)
					left = leftCol(cb.padded, cb.pw, cb.ph, bx, by)
					tl = topLeftSample(cb.padded, cb.pw, bx, by)
				}

				var mode dsp.IntraMode
				var prediction []uint8
				if cb.isChroma || !useIntraPrediction {
					prediction = predictor.Predict(dsp.ModeDC, top, left, tl)
				} else {
					mode, _ = predictor.SelectBestMode(samples, top, left, tl, by == 0, bx == 0)
					prediction = predictor.Predict(mode, top, left, tl)
				}

				var qp uint8
				var table dsp.QuantTable
				if useAdaptiveQuant {
					stats := aq.AnalyzeBlock(samples, blockSize)
					qp = aq.ComputeQP(stats)
					table = aq.GetTable(qp, cb.isChroma)
				} else {
					qp = quality
					table = baseTable
				}

				residual := dsp.ComputeResidual(samples, prediction)
				var residualBlock dsp.Block
				copy(residualBlock[:], residual)
				freq := dsp.ForwardDCT(&residualBlock)
				quantized := dsp.Quantize(freq, table)
				zz := dsp.ZigZagScan(quantized)

				modes = append(modes, byte(mode))
				qps = append(qps, qp)
				coeffBlocks = append(coeffBlocks, zz)

				dequant := dsp.Dequantize(dsp.ZigZagUnscan(zz), table)
				idct := dsp.InverseDCT(dequant)
				reconstructed := dsp.Reconstruct(prediction, samplesFromResidual(idct))
				setBlock(cb.padded, cb.pw, bx, by, reconstructed)
			}
		}

		var coeffData []byte
		if useRangeCoder {
			coeffData = EncodeCoeffsRangeCoder(coeffBlocks)
		} else {
			coeffData = EncodeCoeffsHuffman(coeffBlocks)
		}

		allData = appendSection(allData, modes)
		allData = appendSection(allData, qps)
		allData = appendSection(allData, coeffData)
		pool.Put(cb.padded)
	}
	return allData, nil
}

// wrapPayload deflates allData and appends it after preamble with its
// compressed-length prefix, per the §4.10/§6 wire layout.
func wrapPayload(preamble, allData []byte) ([]byte, error) {
	compressed, err := deflate(allData)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(preamble)+4+len(compressed))
	out = append(out, preamble...)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(compressed)))
	out = append(out, lenBuf[:]...)
	out = append(out, compressed...)
	return out, nil
}

// unwrapPayload reads the compressed_len:u32 prefix starting at pos and
// inflates the following compressed bytes back into all_data.
func unwrapPayload(data []byte, pos int) ([]byte, error) {
	if pos+4 > len(data) {
		return nil, ErrPayloadTooShort
	}
	compressedLen := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
	pos += 4
	if pos+compressedLen > len(data) {
		return nil, ErrPayloadTooShort
	}
	return inflate(data[pos : pos+compressedLen])
}

// DecodeV3 inverts EncodeV3 given the caller-supplied plane dimensions (the
// container layer knows width/height/chroma-role before any bytes decode).
// quality must be the same value passed to EncodeV3, so both sides derive
// an identical deblocking decision.
func DecodeV3(data []byte, dims []PlaneDims, quality uint8) ([]Plane, error) {
	if len(data) < preambleV3Size+4 {
		return nil, ErrPayloadTooShort
	}
	flags := pipelineFlags{
		useRangeCoder:      data[0] != 0,
		useIntraPrediction: data[1] != 0,
		useAdaptiveQuant:   data[2] != 0,
	}
	lumaTable := readQuantTable(data[3 : 3+128])
	chromaTable := readQuantTable(data[131 : 131+128])

	allData, err := unwrapPayload(data, preambleV3Size)
	if err != nil {
		return nil, err
	}

	return decodeChannels(allData, dims, flags, lumaTable, chromaTable, quality)
}

// decodeChannels inverts encodeChannels: given the inflated all_data buffer
// and flags/tables parsed from the preamble, reconstructs every plane.
func decodeChannels(allData []byte, dims []PlaneDims, flags pipelineFlags, lumaTable, chromaTable dsp.QuantTable, quality uint8) ([]Plane, error) {
	useRangeCoder, useIntraPrediction, useAdaptiveQuant := flags.useRangeCoder, flags.useIntraPrediction, flags.useAdaptiveQuant
	aq := dsp.NewAdaptiveQuantizer(50) // BaseQP unused in decode (qp comes from stream)
	predictor := dsp.NewIntraPredictor(blockSize)
	deblock := dsp.DeblockConfigFromQuality(quality)

	planes := make([]Plane, len(dims))
	sectionPos := 0
	for i, d := range dims {
		cb := newChannelBlocksForDecode(d)
		baseTable := lumaTable
		if cb.isChroma {
			baseTable = chromaTable
		}

		modes, next, err := readSection(allData, sectionPos)
		if err != nil {
			return nil, err
		}
		sectionPos = next
		qps, next, err := readSection(allData, sectionPos)
		if err != nil {
			return nil, err
		}
		sectionPos = next
		coeffData, next, err := readSection(allData, sectionPos)
		if err != nil {
			return nil, err
		}
		sectionPos = next

		numBlocks := cb.numBlocks()
		if len(modes) != numBlocks || len(qps) != numBlocks {
			return nil, ErrBlockCountMismatch
		}

		var coeffBlocks []*dsp.Block
		if useRangeCoder {
			coeffBlocks, err = DecodeCoeffsRangeCoder(coeffData, numBlocks)
		} else {
			coeffBlocks, err = DecodeCoeffsHuffman(coeffData, numBlocks)
		}
		if err != nil {
			return nil, err
		}

		idx := 0
		for by := 0; by < cb.blocksY; by++ {
			for bx := 0; bx < cb.blocksX; bx++ {
				qp := qps[idx]
				if qp < 1 || qp > 100 {
					return nil, ErrInvalidQP
				}

				var top, left []uint8
				var tl uint8 = 128
				if useIntraPrediction {
					top = topRow(cb.padded, cb.pw, cb.ph, bx, by)
					left = leftCol(cb.padded, cb.pw, cb.ph, bx, by)
					tl = topLeftSample(cb.padded, cb.pw, bx, by)
				}

				mode := dsp.IntraMode(modes[idx])
				var prediction []uint8
				if cb.isChroma || !useIntraPrediction {
					prediction = predictor.Predict(dsp.ModeDC, top, left, tl)
				} else {
					prediction = predictor.Predict(mode, top, left, tl)
				}

				var table dsp.QuantTable
				if useAdaptiveQuant {
					table = aq.GetTable(qp, cb.isChroma)
				} else {
					table = baseTable
				}

				dequant := dsp.Dequantize(dsp.ZigZagUnscan(coeffBlocks[idx]), table)
				idct := dsp.InverseDCT(dequant)
				reconstructed := dsp.Reconstruct(prediction, samplesFromResidual(idct))
				setBlock(cb.padded, cb.pw, bx, by, reconstructed)

				idx++
			}
		}

		deblock.ApplyChannel(cb.padded, cb.pw, cb.ph)

		planes[i] = Plane{
			Width: d.Width, Height: d.Height, IsChroma: d.IsChroma,
			Data: cropPlane(cb.padded, cb.pw, d.Width, d.Height),
		}
		pool.Put(cb.padded)
	}

	return planes, nil
}

func appendSection(dst, section []byte) []byte {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(section)))
	dst = append(dst, lenBuf[:]...)
	dst = append(dst, section...)
	return dst
}

func readSection(data []byte, pos int) (section []byte, next int, err error) {
	if pos+4 > len(data) {
		return nil, 0, ErrPayloadTooShort
	}
	n := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
	pos += 4
	if pos+n > len(data) {
		return nil, 0, ErrPayloadTooShort
	}
	return data[pos : pos+n], pos + n, nil
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
