package lossy

import (
	"encoding/binary"

	"github.com/cowoksoftspoken/wk/internal/dsp"
)

const (
	preambleV3Size     = 3 + 64*2 + 64*2
	preambleLegacySize = 64*2 + 64*2
)

func writeQuantTable(buf []byte, t dsp.QuantTable) {
	for i, v := range t.Table {
		binary.LittleEndian.PutUint16(buf[i*2:i*2+2], v)
	}
}

func readQuantTable(data []byte) dsp.QuantTable {
	var t dsp.QuantTable
	for i := range t.Table {
		t.Table[i] = binary.LittleEndian.Uint16(data[i*2 : i*2+2])
	}
	return t
}

// IsV3 reports whether an encoded lossy payload uses the v3 pipeline,
// distinguishing it from the legacy fallback by inspecting the first
// preamble byte: a v3 feature-flag byte is always 0 or 1, while a legacy
// quant-table low byte is usually (but not provably) something else. This
// mirrors the reference format's own ambiguity at this one byte.
func IsV3(data []byte) bool {
	return len(data) > preambleV3Size && data[0] <= 1
}
