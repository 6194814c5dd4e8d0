package lossy

import (
	"math/rand"
	"testing"
)

func gradientPlane(w, h int, isChroma bool) Plane {
	data := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			data[y*w+x] = uint8((x*7 + y*13) % 256)
		}
	}
	return Plane{Width: w, Height: h, Data: data, IsChroma: isChroma}
}

func noisyPlane(w, h int, isChroma bool, seed int64) Plane {
	r := rand.New(rand.NewSource(seed))
	data := make([]uint8, w*h)
	for i := range data {
		data[i] = uint8(r.Intn(256))
	}
	return Plane{Width: w, Height: h, Data: data, IsChroma: isChroma}
}

func testPlanes() []Plane {
	return []Plane{
		gradientPlane(20, 18, false), // luma, not a multiple of 8 in either dim
		noisyPlane(10, 10, true, 1),  // chroma
		noisyPlane(10, 10, true, 2),
	}
}

func planeDims(planes []Plane) []PlaneDims {
	dims := make([]PlaneDims, len(planes))
	for i, p := range planes {
		dims[i] = PlaneDims{Width: p.Width, Height: p.Height, IsChroma: p.IsChroma}
	}
	return dims
}

func assertPlanesEqual(t *testing.T, got, want []Plane) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("plane count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Width != want[i].Width || got[i].Height != want[i].Height {
			t.Fatalf("plane %d dims = (%d,%d), want (%d,%d)", i, got[i].Width, got[i].Height, want[i].Width, want[i].Height)
		}
		if len(got[i].Data) != len(want[i].Data) {
			t.Fatalf("plane %d data len = %d, want %d", i, len(got[i].Data), len(want[i].Data))
		}
		for j := range want[i].Data {
			if got[i].Data[j] != want[i].Data[j] {
				t.Fatalf("plane %d byte %d = %d, want %d", i, j, got[i].Data[j], want[i].Data[j])
			}
		}
	}
}

func TestEncodeDecodeV3RoundTripAllFlagCombinations(t *testing.T) {
	planes := testPlanes()
	dims := planeDims(planes)

	for _, useRangeCoder := range []bool{true, false} {
		for _, useIntra := range []bool{true, false} {
			for _, useAdaptive := range []bool{true, false} {
				encoded, err := EncodeV3(planes, 80, useRangeCoder, useIntra, useAdaptive)
				if err != nil {
					t.Fatalf("encode(rc=%v,intra=%v,aq=%v): %v", useRangeCoder, useIntra, useAdaptive, err)
				}
				decoded, err := DecodeV3(encoded, dims, 80)
				if err != nil {
					t.Fatalf("decode(rc=%v,intra=%v,aq=%v): %v", useRangeCoder, useIntra, useAdaptive, err)
				}
				assertPlanesEqual(t, decoded, planes)
			}
		}
	}
}

func TestEncodeDecodeLegacyRoundTrip(t *testing.T) {
	planes := testPlanes()
	dims := planeDims(planes)

	encoded, err := EncodeLegacy(planes, 75)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeLegacy(encoded, dims, 75)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	assertPlanesEqual(t, decoded, planes)
}

func TestIsV3DistinguishesVariants(t *testing.T) {
	planes := testPlanes()

	v3, err := EncodeV3(planes, 80, true, true, true)
	if err != nil {
		t.Fatalf("encode v3: %v", err)
	}
	if !IsV3(v3) {
		t.Fatalf("IsV3 returned false on a v3 payload")
	}

	legacy, err := EncodeLegacy(planes, 80)
	if err != nil {
		t.Fatalf("encode legacy: %v", err)
	}
	// The legacy preamble's first byte is a quant-table entry; force it
	// above 1 to exercise the common case of unambiguous detection.
	if legacy[0] <= 1 {
		legacy[0] = 2
	}
	if IsV3(legacy) {
		t.Fatalf("IsV3 returned true on a legacy payload")
	}
}

func TestDecodeV3PayloadTooShort(t *testing.T) {
	_, err := DecodeV3([]byte{1, 2, 3}, nil, 80)
	if err != ErrPayloadTooShort {
		t.Fatalf("err = %v, want ErrPayloadTooShort", err)
	}
}

func TestDecodeLegacyPayloadTooShort(t *testing.T) {
	_, err := DecodeLegacy(make([]byte, 10), nil, 75)
	if err != ErrPayloadTooShort {
		t.Fatalf("err = %v, want ErrPayloadTooShort", err)
	}
}

func TestEncodeV3DifferentQualityProducesDifferentSize(t *testing.T) {
	planes := []Plane{gradientPlane(64, 64, false)}

	low, err := EncodeV3(planes, 20, true, true, true)
	if err != nil {
		t.Fatalf("encode low: %v", err)
	}
	high, err := EncodeV3(planes, 95, true, true, true)
	if err != nil {
		t.Fatalf("encode high: %v", err)
	}
	if len(low) >= len(high) {
		t.Fatalf("low-quality payload (%d bytes) should be smaller than high-quality (%d bytes)", len(low), len(high))
	}
}
