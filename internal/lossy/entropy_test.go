package lossy

import (
	"math/rand"
	"testing"

	"github.com/cowoksoftspoken/wk/internal/dsp"
)

func TestZigzagSignedRoundTrip(t *testing.T) {
	for v := -300; v <= 300; v++ {
		got := zigzagDecodeSigned(zigzagEncodeSigned(int16(v)))
		if int(got) != v {
			t.Fatalf("zigzag round trip %d: got %d", v, got)
		}
	}
}

func randomBlock(r *rand.Rand) *dsp.Block {
	var blk dsp.Block
	for i := range blk {
		blk[i] = int16(r.Intn(511) - 255)
	}
	return &blk
}

func TestCoeffsRangeCoderRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(10))
	blocks := make([]*dsp.Block, 6)
	for i := range blocks {
		blocks[i] = randomBlock(r)
	}

	encoded := EncodeCoeffsRangeCoder(blocks)
	decoded, err := DecodeCoeffsRangeCoder(encoded, len(blocks))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := range blocks {
		if *decoded[i] != *blocks[i] {
			t.Fatalf("block %d mismatch", i)
		}
	}
}

func TestCoeffsHuffmanRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	blocks := make([]*dsp.Block, 6)
	for i := range blocks {
		blocks[i] = randomBlock(r)
	}

	encoded := EncodeCoeffsHuffman(blocks)
	decoded, err := DecodeCoeffsHuffman(encoded, len(blocks))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := range blocks {
		if *decoded[i] != *blocks[i] {
			t.Fatalf("block %d mismatch", i)
		}
	}
}

func TestCoeffsRangeCoderAllZeroBlocks(t *testing.T) {
	blocks := make([]*dsp.Block, 4)
	for i := range blocks {
		blocks[i] = &dsp.Block{}
	}
	encoded := EncodeCoeffsRangeCoder(blocks)
	decoded, err := DecodeCoeffsRangeCoder(encoded, len(blocks))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := range blocks {
		if *decoded[i] != *blocks[i] {
			t.Fatalf("block %d mismatch", i)
		}
	}
}

func TestDecodeCoeffsHuffmanWrongBlockCount(t *testing.T) {
	blocks := []*dsp.Block{{}, {}}
	encoded := EncodeCoeffsHuffman(blocks)
	_, err := DecodeCoeffsHuffman(encoded, 3)
	if err != ErrBlockCountMismatch {
		t.Fatalf("err = %v, want ErrBlockCountMismatch", err)
	}
}
