package lossy

import "github.com/cowoksoftspoken/wk/internal/dsp"

// legacyPipelineFlags are fixed for the legacy fallback: no intra-prediction, no
// per-block adaptive QP, and the range coder as its only entropy back-end
// (the pre-v3 format predates the Huffman+RLE alternative, and its
// preamble has no flag byte to select between them).
var legacyPipelineFlags = pipelineFlags{useRangeCoder: true, useIntraPrediction: false, useAdaptiveQuant: false}

// EncodeLegacy runs the simplified pre-v3 lossy pipeline: flat (DC-only, no
// neighbor context) block prediction, a fixed quality-derived quant table
// for every block, and a 256-byte two-table preamble with no feature-flag
// bytes.
func EncodeLegacy(planes []Plane, quality uint8) ([]byte, error) {
	flags := legacyPipelineFlags
	lumaTable := dsp.QuantTableForQuality(quality, false)
	chromaTable := dsp.QuantTableForQuality(quality, true)

	allData, err := encodeChannels(planes, quality, flags, lumaTable, chromaTable)
	if err != nil {
		return nil, err
	}

	preamble := make([]byte, preambleLegacySize)
	writeQuantTable(preamble[0:128], lumaTable)
	writeQuantTable(preamble[128:256], chromaTable)

	return wrapPayload(preamble, allData)
}

// DecodeLegacy inverts EncodeLegacy. The legacy preamble carries no entropy
// back-end flag byte, so the range coder is assumed — the only back-end the
// pre-v3 format ever shipped with. quality must match the value passed to
// EncodeLegacy so both sides derive an identical deblocking decision.
func DecodeLegacy(data []byte, dims []PlaneDims, quality uint8) ([]Plane, error) {
	if len(data) < preambleLegacySize+4 {
		return nil, ErrPayloadTooShort
	}
	lumaTable := readQuantTable(data[0:128])
	chromaTable := readQuantTable(data[128:256])

	allData, err := unwrapPayload(data, preambleLegacySize)
	if err != nil {
		return nil, err
	}

	return decodeChannels(allData, dims, legacyPipelineFlags, lumaTable, chromaTable, quality)
}
