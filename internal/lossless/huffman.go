package lossless

import (
	"encoding/binary"
	"sort"
)

// huffmanNode is a node of the canonical-merge Huffman tree: a leaf holds a
// symbol, an internal node holds only children.
type huffmanNode struct {
	symbol      uint8
	hasSymbol   bool
	freq        uint32
	left, right *huffmanNode
}

func leafNode(symbol uint8, freq uint32) *huffmanNode {
	return &huffmanNode{symbol: symbol, hasSymbol: true, freq: freq}
}

func internalNode(left, right *huffmanNode) *huffmanNode {
	return &huffmanNode{freq: left.freq + right.freq, left: left, right: right}
}

// huffmanCode is a symbol's bit pattern, held in the low len bits of bits.
type huffmanCode struct {
	bits uint32
	len  uint8
}

// huffmanTable is a Huffman code assignment built from a 256-entry byte
// frequency table by repeatedly merging the two lowest-frequency nodes.
type huffmanTable struct {
	codes     map[uint8]huffmanCode
	decodeTree *huffmanNode
}

func buildHuffmanTable(freq *[256]uint32) *huffmanTable {
	var nodes []*huffmanNode
	for i, f := range freq {
		if f > 0 {
			nodes = append(nodes, leafNode(uint8(i), f))
		}
	}

	if len(nodes) == 0 {
		return &huffmanTable{codes: map[uint8]huffmanCode{}}
	}

	if len(nodes) == 1 {
		node := nodes[0]
		codes := map[uint8]huffmanCode{node.symbol: {bits: 0, len: 1}}
		return &huffmanTable{codes: codes, decodeTree: node}
	}

	for len(nodes) > 1 {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].freq > nodes[j].freq })
		n := len(nodes)
		right := nodes[n-1]
		left := nodes[n-2]
		nodes = nodes[:n-2]
		nodes = append(nodes, internalNode(left, right))
	}

	root := nodes[0]
	codes := make(map[uint8]huffmanCode)
	buildCodes(root, 0, 0, codes)

	return &huffmanTable{codes: codes, decodeTree: root}
}

func buildCodes(node *huffmanNode, bits uint32, length uint8, codes map[uint8]huffmanCode) {
	if node.hasSymbol {
		l := length
		if l < 1 {
			l = 1
		}
		codes[node.symbol] = huffmanCode{bits: bits, len: l}
		return
	}
	if node.left != nil {
		buildCodes(node.left, bits<<1, length+1, codes)
	}
	if node.right != nil {
		buildCodes(node.right, (bits<<1)|1, length+1, codes)
	}
}

// huffmanBitWriter accumulates variable-length codes MSB-first into bytes,
// matching the reference bit packing exactly.
type huffmanBitWriter struct {
	buffer   []byte
	bitBuf   uint32
	bitCount uint8
}

func (w *huffmanBitWriter) writeBits(bits uint32, length uint8) {
	w.bitBuf = (w.bitBuf << length) | (bits & ((1 << length) - 1))
	w.bitCount += length
	for w.bitCount >= 8 {
		w.bitCount -= 8
		w.buffer = append(w.buffer, byte(w.bitBuf>>w.bitCount))
	}
}

func (w *huffmanBitWriter) flush() {
	if w.bitCount > 0 {
		w.buffer = append(w.buffer, byte(w.bitBuf<<(8-w.bitCount)))
		w.bitBuf = 0
		w.bitCount = 0
	}
}

// EncodeHuffman Huffman-codes data and serializes it as:
// freq[256] (little-endian uint32 each) || original_len:u32 || compressed_len:u32 || compressed bytes.
func EncodeHuffman(data []byte) []byte {
	var freq [256]uint32
	for _, b := range data {
		freq[b]++
	}

	table := buildHuffmanTable(&freq)

	output := make([]byte, 0, 1024+8+len(data))
	var u32buf [4]byte
	for i := 0; i < 256; i++ {
		binary.LittleEndian.PutUint32(u32buf[:], freq[i])
		output = append(output, u32buf[:]...)
	}

	w := &huffmanBitWriter{}
	for _, b := range data {
		if code, ok := table.codes[b]; ok {
			w.writeBits(code.bits, code.len)
		}
	}
	w.flush()

	binary.LittleEndian.PutUint32(u32buf[:], uint32(len(data)))
	output = append(output, u32buf[:]...)
	binary.LittleEndian.PutUint32(u32buf[:], uint32(len(w.buffer)))
	output = append(output, u32buf[:]...)
	output = append(output, w.buffer...)

	return output
}

// DecodeHuffman reverses EncodeHuffman.
func DecodeHuffman(data []byte) ([]byte, error) {
	const headerSize = 1024 + 8
	if len(data) < headerSize {
		return nil, ErrHuffmanDataTooShort
	}

	var freq [256]uint32
	pos := 0
	for i := 0; i < 256; i++ {
		freq[i] = binary.LittleEndian.Uint32(data[pos : pos+4])
		pos += 4
	}
	originalLen := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
	pos += 4
	compressedLen := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
	pos += 4

	if pos+compressedLen > len(data) {
		return nil, ErrHuffmanDataTruncated
	}
	compressed := data[pos : pos+compressedLen]

	table := buildHuffmanTable(&freq)
	if table.decodeTree == nil {
		return []byte{}, nil
	}

	root := table.decodeTree
	output := make([]byte, 0, originalLen)
	current := root

outer:
	for _, b := range compressed {
		for bitPos := 7; bitPos >= 0; bitPos-- {
			bit := (b >> uint(bitPos)) & 1
			if bit == 0 {
				if current.left != nil {
					current = current.left
				}
			} else if current.right != nil {
				current = current.right
			}
			if current.hasSymbol {
				output = append(output, current.symbol)
				current = root
				if len(output) >= originalLen {
					break outer
				}
			}
		}
	}

	return output, nil
}

// EncodeRLEHuffman run-length-encodes a signed 16-bit coefficient stream
// (zero runs, small magnitudes, and large magnitudes as distinct token
// kinds) and then Huffman-codes the resulting byte stream.
func EncodeRLEHuffman(data []int16) []byte {
	var rle []byte
	i := 0
	for i < len(data) {
		if data[i] == 0 {
			count := 0
			for i < len(data) && data[i] == 0 && count < 255 {
				count++
				i++
			}
			rle = append(rle, 0, byte(count))
			continue
		}

		val := data[i]
		var magnitude uint16
		var sign uint8
		if val < 0 {
			magnitude = uint16(-val)
			sign = 1
		} else {
			magnitude = uint16(val)
		}

		if magnitude <= 127 {
			rle = append(rle, 1, byte(magnitude)|(sign<<7))
		} else {
			rle = append(rle, 2, byte(magnitude&0xFF), byte(magnitude>>8)|(sign<<7))
		}
		i++
	}

	return EncodeHuffman(rle)
}

// DecodeRLEHuffman reverses EncodeRLEHuffman.
func DecodeRLEHuffman(data []byte) ([]int16, error) {
	rle, err := DecodeHuffman(data)
	if err != nil {
		return nil, err
	}

	var output []int16
	i := 0
	for i < len(rle) {
		switch rle[i] {
		case 0:
			if i+1 >= len(rle) {
				i = len(rle)
				continue
			}
			count := int(rle[i+1])
			for k := 0; k < count; k++ {
				output = append(output, 0)
			}
			i += 2
		case 1:
			if i+1 >= len(rle) {
				i = len(rle)
				continue
			}
			b := rle[i+1]
			magnitude := int16(b & 0x7F)
			sign := (b >> 7) & 1
			val := magnitude
			if sign == 1 {
				val = -magnitude
			}
			output = append(output, val)
			i += 2
		case 2:
			if i+2 >= len(rle) {
				i = len(rle)
				continue
			}
			low := uint16(rle[i+1])
			high := uint16(rle[i+2] & 0x7F)
			magnitude := int16(low | (high << 8))
			sign := (rle[i+2] >> 7) & 1
			val := magnitude
			if sign == 1 {
				val = -magnitude
			}
			output = append(output, val)
			i += 3
		default:
			i++
		}
	}

	return output, nil
}
