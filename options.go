package wk

import "github.com/cowoksoftspoken/wk/internal/colormodel"

// defaultQuality is used whenever an Options value leaves Quality at its
// zero value.
const defaultQuality = 80

// Options controls how Encode compresses a Raster.
type Options struct {
	// Mode selects the codec pipeline. Mixed is accepted for API symmetry
	// with decode but is treated as Lossy on encode.
	Mode CompressionMode

	// Quality is the encode quality in [1,100]. Zero is resolved to 80.
	// Quality 100 always forces Lossless, regardless of Mode.
	Quality uint8

	// BitDepth is recorded in the header for the consuming application's
	// own use; the codec pipelines themselves always operate on 8-bit
	// samples. Zero is resolved to 8.
	BitDepth uint8

	// ColorSpace selects the RGB<->YCbCr transform used when the lossy
	// pipeline converts an RGB/RGBA raster to its internal planar form.
	// Ignored for Grayscale/GrayscaleAlpha/YUV420/YUV444 rasters and for
	// Lossless mode.
	ColorSpace colormodel.Space

	// UseRangeCoder, UseIntraPrediction, and UseAdaptiveQuant select v3
	// lossy pipeline features; they have no effect in Lossless mode.
	UseRangeCoder      bool
	UseIntraPrediction bool
	UseAdaptiveQuant   bool

	// Metadata chunks to embed. Any left nil are omitted from the stream.
	ICC    *IccProfile
	Exif   *ExifData
	Xmp    *XmpData
	Custom *Custom
}

// DefaultOptions returns quality-80 lossy encoding with the full v3 feature
// set enabled and BT.601 color conversion, matching the settings that
// produce the smallest output for typical photographic content.
func DefaultOptions() Options {
	return Options{
		Mode:               Lossy,
		Quality:            defaultQuality,
		BitDepth:           8,
		ColorSpace:         colormodel.YCbCr601,
		UseRangeCoder:      true,
		UseIntraPrediction: true,
		UseAdaptiveQuant:   true,
	}
}

func (o Options) resolve() Options {
	if o.Quality == 0 {
		o.Quality = defaultQuality
	}
	if o.BitDepth == 0 {
		o.BitDepth = 8
	}
	effectiveMode := o.Mode
	if effectiveMode == Mixed {
		effectiveMode = Lossy
	}
	if o.Quality >= 100 {
		effectiveMode = Lossless
	}
	o.Mode = effectiveMode
	return o
}
