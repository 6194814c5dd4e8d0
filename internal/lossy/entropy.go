package lossy

import (
	"encoding/binary"

	"github.com/cowoksoftspoken/wk/internal/bitio"
	"github.com/cowoksoftspoken/wk/internal/dsp"
	"github.com/cowoksoftspoken/wk/internal/lossless"
)

// zigzagEncodeSigned maps a signed 16-bit coefficient to a non-negative
// integer (even for >=0, odd for <0), the standard interleaving that lets
// an unsigned variable-length code carry signed values.
func zigzagEncodeSigned(v int16) uint32 {
	x := int32(v)
	return uint32((x << 1) ^ (x >> 31))
}

func zigzagDecodeSigned(u uint32) int16 {
	x := int32(u>>1) ^ -int32(u&1)
	return int16(x)
}

func rcBitLength(v uint32) int {
	length := 1
	for v > 1 {
		v >>= 1
		length++
	}
	return length
}

// writeExpGolombRC emits val as an Exp-Golomb code through the range
// coder's bypass path, mirroring bitio.Writer.WriteExpGolomb bit-for-bit.
func writeExpGolombRC(enc *bitio.RangeEncoder, val uint32) {
	v := val + 1
	length := rcBitLength(v)
	for i := 0; i < length-1; i++ {
		enc.EncodeBit(false)
	}
	enc.EncodeValue(v, uint(length))
}

func readExpGolombRC(dec *bitio.RangeDecoder) uint32 {
	length := 1
	for !dec.DecodeBit() {
		length++
	}
	rest := dec.DecodeValue(uint(length - 1))
	v := (uint32(1) << uint(length-1)) | rest
	return v - 1
}

// encodeBlockRangeCoder range-codes one 8x8 block's 64 coefficients as
// bypass-bit Exp-Golomb codes over their zig-zag-mapped unsigned form.
func encodeBlockRangeCoder(blk *dsp.Block) []byte {
	enc := bitio.NewRangeEncoder()
	for _, c := range blk {
		writeExpGolombRC(enc, zigzagEncodeSigned(c))
	}
	return enc.Finish()
}

func decodeBlockRangeCoder(data []byte) *dsp.Block {
	dec := bitio.NewRangeDecoder(data)
	var blk dsp.Block
	for i := range blk {
		blk[i] = zigzagDecodeSigned(readExpGolombRC(dec))
	}
	return &blk
}

// EncodeCoeffsRangeCoder serializes one channel's per-block coefficients as
// a sequence of (length:u16 LE, range-coded bytes) records, one per block,
// in raster block order.
func EncodeCoeffsRangeCoder(blocks []*dsp.Block) []byte {
	var out []byte
	var lenBuf [2]byte
	for _, blk := range blocks {
		payload := encodeBlockRangeCoder(blk)
		binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(payload)))
		out = append(out, lenBuf[:]...)
		out = append(out, payload...)
	}
	return out
}

// DecodeCoeffsRangeCoder reverses EncodeCoeffsRangeCoder, expecting exactly
// numBlocks length-prefixed records.
func DecodeCoeffsRangeCoder(data []byte, numBlocks int) ([]*dsp.Block, error) {
	blocks := make([]*dsp.Block, 0, numBlocks)
	pos := 0
	for i := 0; i < numBlocks; i++ {
		if pos+2 > len(data) {
			return nil, ErrPayloadTooShort
		}
		n := int(binary.LittleEndian.Uint16(data[pos : pos+2]))
		pos += 2
		if pos+n > len(data) {
			return nil, ErrPayloadTooShort
		}
		blocks = append(blocks, decodeBlockRangeCoder(data[pos:pos+n]))
		pos += n
	}
	return blocks, nil
}

// EncodeCoeffsHuffman flattens every block's 64 coefficients in raster
// block order and Huffman+RLE-codes the resulting stream as one unit.
func EncodeCoeffsHuffman(blocks []*dsp.Block) []byte {
	flat := make([]int16, 0, len(blocks)*64)
	for _, blk := range blocks {
		flat = append(flat, blk[:]...)
	}
	return lossless.EncodeRLEHuffman(flat)
}

// DecodeCoeffsHuffman reverses EncodeCoeffsHuffman.
func DecodeCoeffsHuffman(data []byte, numBlocks int) ([]*dsp.Block, error) {
	flat, err := lossless.DecodeRLEHuffman(data)
	if err != nil {
		return nil, err
	}
	if len(flat) != numBlocks*64 {
		return nil, ErrBlockCountMismatch
	}
	blocks := make([]*dsp.Block, numBlocks)
	for i := 0; i < numBlocks; i++ {
		var blk dsp.Block
		copy(blk[:], flat[i*64:(i+1)*64])
		blocks[i] = &blk
	}
	return blocks, nil
}
