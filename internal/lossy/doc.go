// Package lossy implements the block-transform lossy pipeline: 8x8 tiling
// with edge-replication padding, intra-block prediction, adaptive
// quantization, forward/inverse DCT, zig-zag scanning, and a choice of
// range-coder or Huffman+RLE entropy coding, followed by a generic deflate
// pass over the assembled side-channel-plus-coefficient stream.
//
// Two wire variants are supported: the v3 pipeline (intra-prediction and
// adaptive per-block QP, selectable via preamble flags) and a legacy
// fallback (fixed quantization, no intra-prediction, a shorter preamble).
// IsV3 distinguishes an encoded payload's variant by inspecting its first
// preamble byte.
package lossy

import "errors"

var (
	// ErrPayloadTooShort is returned when a lossy payload ends before its
	// declared preamble or length-prefixed sections are fully present.
	ErrPayloadTooShort = errors.New("lossy: payload too short")
	// ErrBlockCountMismatch is returned when a decoded coefficient section
	// does not contain exactly the expected number of 8x8 blocks.
	ErrBlockCountMismatch = errors.New("lossy: coefficient block count mismatch")
	// ErrInvalidQP is returned when a decoded per-block QP byte falls
	// outside [1,100].
	ErrInvalidQP = errors.New("lossy: qp out of range")
)
