package lossless

import "errors"

var (
	// ErrTruncatedRow is returned when a filtered buffer ends before a full
	// row (predictor tag + stride samples) has been consumed.
	ErrTruncatedRow = errors.New("lossless: truncated predictor row")
	// ErrHuffmanDataTooShort is returned when a Huffman-coded buffer is
	// shorter than the fixed 1032-byte frequency-table-plus-length header.
	ErrHuffmanDataTooShort = errors.New("lossless: huffman data too short")
	// ErrHuffmanDataTruncated is returned when the declared compressed
	// length runs past the end of the buffer.
	ErrHuffmanDataTruncated = errors.New("lossless: truncated huffman data")
)
