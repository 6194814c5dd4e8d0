package wk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func grayRaster(w, h int) Raster {
	pix := make([]byte, w*h)
	for i := range pix {
		pix[i] = byte(i * 7 % 256)
	}
	return Raster{Width: w, Height: h, ColorType: Grayscale, Pix: pix}
}

func rgbRaster(w, h int) Raster {
	pix := make([]byte, w*h*3)
	for i := 0; i < w*h; i++ {
		pix[i*3] = byte(i % 256)
		pix[i*3+1] = byte((i * 3) % 256)
		pix[i*3+2] = byte((i * 5) % 256)
	}
	return Raster{Width: w, Height: h, ColorType: RGB, Pix: pix}
}

func rgbaRaster(w, h int) Raster {
	pix := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		pix[i*4] = byte(i % 256)
		pix[i*4+1] = byte((i * 3) % 256)
		pix[i*4+2] = byte((i * 5) % 256)
		pix[i*4+3] = byte((i * 11) % 256)
	}
	return Raster{Width: w, Height: h, ColorType: RGBA, Pix: pix}
}

func constantRaster(w, h int, color ...byte) Raster {
	channels := len(color)
	pix := make([]byte, w*h*channels)
	for i := 0; i < w*h; i++ {
		copy(pix[i*channels:], color)
	}
	ct := Grayscale
	switch channels {
	case 3:
		ct = RGB
	case 4:
		ct = RGBA
	}
	return Raster{Width: w, Height: h, ColorType: ct, Pix: pix}
}

// S1: tiny grayscale lossless round-trips bit-exactly.
func TestLosslessTinyGrayscaleRoundTrip(t *testing.T) {
	img := grayRaster(3, 2)
	opts := DefaultOptions()
	opts.Mode = Lossless

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, opts))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, img.Width, got.Width)
	require.Equal(t, img.Height, got.Height)
	require.Equal(t, img.ColorType, got.ColorType)
	require.Equal(t, img.Pix, got.Pix)
}

// S2: a constant-color image round-trips bit-exactly under lossless.
func TestLosslessConstantColorRoundTrip(t *testing.T) {
	img := constantRaster(16, 16, 200, 100, 50)
	opts := DefaultOptions()
	opts.Mode = Lossless

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, opts))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, img.Pix, got.Pix)
}

// S3: a gradient image round-trips bit-exactly under lossless.
func TestLosslessGradientRoundTrip(t *testing.T) {
	img := rgbRaster(24, 20)
	opts := DefaultOptions()
	opts.Mode = Lossless

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, opts))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, img.Pix, got.Pix)
}

// S4: an RGBA image with alpha round-trips bit-exactly under lossless.
func TestLosslessRGBARoundTrip(t *testing.T) {
	img := rgbaRaster(18, 14)
	opts := DefaultOptions()
	opts.Mode = Lossless

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, opts))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, img.Pix, got.Pix)
}

// S5: metadata attached at encode time survives decode.
func TestMetadataRoundTripsThroughEncodeDecode(t *testing.T) {
	img := rgbRaster(8, 8)
	opts := DefaultOptions()
	opts.Mode = Lossless
	icc := SRGB()
	opts.ICC = &icc
	exif := NewExifBuilder().Make("TestCo").Model("X100").Build()
	opts.Exif = &exif
	xmp := NewXmpBuilder().Title("A test image").Build()
	opts.Xmp = &xmp
	custom := NewCustom()
	custom.Set("note", StringFieldValue("hand-written fixture"))
	opts.Custom = &custom

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, opts))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.NotNil(t, got.ICC)
	require.Equal(t, icc, *got.ICC)
	require.NotNil(t, got.Exif)
	make_, ok := got.Exif.CameraMake()
	require.True(t, ok)
	require.Equal(t, "TestCo", make_)
	require.NotNil(t, got.Xmp)
	require.Equal(t, "A test image", *got.Xmp.Title)
	require.NotNil(t, got.Custom)
	note, ok := got.Custom.GetString("note")
	require.True(t, ok)
	require.Equal(t, "hand-written fixture", note)
}

// S6: a corrupted chunk CRC is a fatal decode error, not a silent skip.
func TestCorruptedChunkCRCIsFatal(t *testing.T) {
	img := grayRaster(4, 4)
	opts := DefaultOptions()
	opts.Mode = Lossless

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, opts))

	data := buf.Bytes()
	// Flip the last byte of the IDAT payload. With no metadata the stream
	// ends with IDAT's 4-byte CRC and the 12-byte IEND chunk, so that byte
	// sits 17 bytes from the end.
	flipIdx := len(data) - 17
	data[flipIdx] ^= 0xFF

	_, err := Decode(bytes.NewReader(data))
	require.Error(t, err)
}

func TestQuality100ForcesLossless(t *testing.T) {
	img := rgbRaster(12, 10)
	opts := DefaultOptions()
	opts.Mode = Lossy
	opts.Quality = 100

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, opts))

	features, err := GetFeatures(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, Lossless, features.Mode)

	got, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, img.Pix, got.Pix)
}

func TestLossyRoundTripPreservesGeometryAndColorType(t *testing.T) {
	img := rgbaRaster(32, 24)
	opts := DefaultOptions()
	opts.Quality = 60

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, opts))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, img.Width, got.Width)
	require.Equal(t, img.Height, got.Height)
	require.Equal(t, img.ColorType, got.ColorType)
	require.Len(t, got.Pix, len(img.Pix))
}

func TestGetFeaturesDoesNotRequireFullStream(t *testing.T) {
	img := grayRaster(5, 5)
	opts := DefaultOptions()
	opts.Mode = Lossless

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, opts))

	features, err := GetFeatures(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 5, features.Width)
	require.Equal(t, 5, features.Height)
	require.Equal(t, Grayscale, features.ColorType)
	require.False(t, features.HasAlpha)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not a wk stream at all")))
	require.Error(t, err)
}

func TestEncodeRejectsMismatchedPixLength(t *testing.T) {
	img := Raster{Width: 4, Height: 4, ColorType: RGB, Pix: make([]byte, 10)}
	err := Encode(&bytes.Buffer{}, img, DefaultOptions())
	require.Error(t, err)
}

func TestEncodeRejectsZeroDimensions(t *testing.T) {
	img := Raster{Width: 0, Height: 4, ColorType: Grayscale, Pix: nil}
	err := Encode(&bytes.Buffer{}, img, DefaultOptions())
	require.Error(t, err)
}
