package wk

import (
	"io"

	"github.com/cowoksoftspoken/wk/internal/container"
	"github.com/cowoksoftspoken/wk/metadata"
)

// ColorType is the channel layout of a Raster's pixel data.
type ColorType = container.ColorType

const (
	Grayscale      = container.ColorGrayscale
	GrayscaleAlpha = container.ColorGrayscaleAlpha
	RGB            = container.ColorRGB
	RGBA           = container.ColorRGBA
	YUV420         = container.ColorYUV420
	YUV444         = container.ColorYUV444
)

// CompressionMode selects the codec pipeline.
type CompressionMode = container.CompressionMode

const (
	Lossless = container.Lossless
	Lossy    = container.Lossy
	Mixed    = container.Mixed
)

// IccProfile, ExifData, XmpData, and Custom are the typed metadata sidecars
// a caller can attach to Options or receive back from Decode. They are
// aliases of the metadata package's types so callers never need to import
// it directly for the common case.
type (
	IccProfile = metadata.IccProfile
	ExifData   = metadata.ExifData
	XmpData    = metadata.XmpData
	Custom     = metadata.Custom
)

// Metadata constructors re-exported for callers that only need the common
// path; metadata.NewCustom and friends remain available for the rest of
// that package's API (Value variants, enums, etc.).
var (
	SRGB             = metadata.SRGB
	AdobeRGB         = metadata.AdobeRGB
	DisplayP3        = metadata.DisplayP3
	ProPhotoRGB      = metadata.ProPhotoRGB
	Rec2020          = metadata.Rec2020
	NewExifBuilder   = metadata.NewExifBuilder
	NewXmpBuilder    = metadata.NewXmpBuilder
	NewCustom        = metadata.NewCustom
	StringFieldValue = metadata.StringFieldValue
	IntFieldValue    = metadata.IntFieldValue
	FloatFieldValue  = metadata.FloatFieldValue
	BoolFieldValue   = metadata.BoolFieldValue
	BytesFieldValue  = metadata.BytesFieldValue
	ArrayFieldValue  = metadata.ArrayFieldValue
)

// Raster is the generic pixel-data input to Encode: width, height, color
// layout, and tightly packed row-major samples (Channels(ColorType) bytes
// per pixel, except for YUV420 where Pix holds three planar sections
// concatenated — Y at full resolution, then Cb and Cr each at
// ceil(w/2)*ceil(h/2)).
type Raster struct {
	Width, Height int
	ColorType     ColorType
	Pix           []byte
}

// Image is the result of a successful Decode: the reconstructed Raster
// plus whichever metadata sidecars were present and parsed successfully.
type Image struct {
	Raster
	ICC    *IccProfile
	Exif   *ExifData
	Xmp    *XmpData
	Custom *Custom
}

// Features describes a stream's geometry without decoding its pixel data.
type Features struct {
	Width, Height int
	ColorType     ColorType
	Mode          CompressionMode
	HasAlpha      bool
	HasAnimation  bool
}

// Encode writes img to w as a complete WK stream using opts. A zero Options
// is not valid input; start from DefaultOptions and override what you need.
func Encode(w io.Writer, img Raster, opts Options) error {
	return encode(w, img, opts.resolve())
}

// Decode reads a complete WK stream from r and reconstructs its pixel data
// and any attached metadata. A metadata chunk that fails to parse is
// dropped silently rather than failing the whole decode, since metadata is
// never required to reconstruct pixels.
func Decode(r io.Reader) (*Image, error) {
	return decode(r)
}

// GetFeatures reads just enough of r to report the stream's geometry.
func GetFeatures(r io.Reader) (*Features, error) {
	return getFeatures(r)
}
