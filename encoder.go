package wk

import (
	"fmt"
	"io"

	"github.com/cowoksoftspoken/wk/internal/colormodel"
	"github.com/cowoksoftspoken/wk/internal/container"
	"github.com/cowoksoftspoken/wk/internal/lossless"
	"github.com/cowoksoftspoken/wk/internal/lossy"
)

func encode(w io.Writer, img Raster, opts Options) error {
	if img.Width <= 0 || img.Height <= 0 {
		return newError(KindEncoding, "validate raster", fmt.Errorf("wk: width and height must be positive, got %dx%d", img.Width, img.Height))
	}
	channels := img.ColorType.Channels()
	if channels == 0 {
		return newError(KindEncoding, "validate raster", fmt.Errorf("wk: invalid color type %d", img.ColorType))
	}
	want := rawPixLen(img.ColorType, img.Width, img.Height)
	if len(img.Pix) != want {
		return newError(KindEncoding, "validate raster", fmt.Errorf("wk: pix length %d does not match %dx%d color type %s (want %d)", len(img.Pix), img.Width, img.Height, img.ColorType, want))
	}

	hasAlpha := img.ColorType == container.ColorRGBA || img.ColorType == container.ColorGrayscaleAlpha
	header := container.Header{
		Width:           uint32(img.Width),
		Height:          uint32(img.Height),
		ColorType:       img.ColorType,
		CompressionMode: opts.Mode,
		Quality:         opts.Quality,
		HasAlpha:        hasAlpha,
		HasAnimation:    false,
		BitDepth:        opts.BitDepth,
	}

	cw := container.NewWriter(w)
	if err := cw.WriteMagic(); err != nil {
		return newError(KindIO, "write magic", err)
	}
	if err := cw.WriteChunk(container.TypeHeader, header.Encode()); err != nil {
		return newError(KindIO, "write header chunk", err)
	}

	if err := writeMetadataChunks(cw, opts); err != nil {
		return err
	}

	switch opts.Mode {
	case container.Lossless:
		payload := encodeLosslessPayload(img, channels)
		if err := cw.WriteChunk(container.TypeImageData, payload); err != nil {
			return newError(KindIO, "write image data chunk", err)
		}
	default:
		payload, err := encodeLossyPayload(img, opts)
		if err != nil {
			return newError(KindEncoding, "encode lossy payload", err)
		}
		if err := cw.WriteChunk(container.TypeImageLossy, payload); err != nil {
			return newError(KindIO, "write lossy image chunk", err)
		}
	}

	if err := cw.WriteEnd(); err != nil {
		return newError(KindIO, "write end chunk", err)
	}
	return nil
}

func writeMetadataChunks(cw *container.Writer, opts Options) error {
	if opts.ICC != nil {
		data, err := opts.ICC.MarshalBinary()
		if err != nil {
			return newError(KindMetadata, "marshal icc profile", err)
		}
		if err := cw.WriteChunk(container.TypeICCP, data); err != nil {
			return newError(KindIO, "write iccp chunk", err)
		}
	}
	if opts.Exif != nil {
		data, err := opts.Exif.MarshalBinary()
		if err != nil {
			return newError(KindMetadata, "marshal exif data", err)
		}
		if err := cw.WriteChunk(container.TypeEXIF, data); err != nil {
			return newError(KindIO, "write exif chunk", err)
		}
	}
	if opts.Xmp != nil {
		data, err := opts.Xmp.MarshalBinary()
		if err != nil {
			return newError(KindMetadata, "marshal xmp data", err)
		}
		if err := cw.WriteChunk(container.TypeXMP, data); err != nil {
			return newError(KindIO, "write xmp chunk", err)
		}
	}
	if opts.Custom != nil {
		data, err := opts.Custom.MarshalBinary()
		if err != nil {
			return newError(KindMetadata, "marshal custom fields", err)
		}
		if err := cw.WriteChunk(container.TypeCustom, data); err != nil {
			return newError(KindIO, "write custom chunk", err)
		}
	}
	return nil
}

func rawPixLen(ct ColorType, width, height int) int {
	if ct == container.ColorYUV420 {
		w2, h2 := (width+1)/2, (height+1)/2
		return width*height + 2*w2*h2
	}
	return width * height * ct.Channels()
}

func encodeLosslessPayload(img Raster, channels int) []byte {
	filtered := lossless.ApplyOptimalPredictor(img.Pix, img.Width, img.Height, channels)
	return lossless.EncodeHuffman(filtered)
}

func encodeLossyPayload(img Raster, opts Options) ([]byte, error) {
	planes := buildLossyPlanes(img, opts.ColorSpace)
	return lossy.EncodeV3(planes, opts.Quality, opts.UseRangeCoder, opts.UseIntraPrediction, opts.UseAdaptiveQuant)
}

// buildLossyPlanes decomposes a raster into the planar form the lossy
// pipeline operates on: a full-resolution luma-or-single-channel plane,
// optional 4:2:0-subsampled chroma planes, and an optional full-resolution
// alpha plane carried through the same per-block machinery as luma.
func buildLossyPlanes(img Raster, space colormodel.Space) []lossy.Plane {
	w, h := img.Width, img.Height
	switch img.ColorType {
	case container.ColorGrayscale:
		return []lossy.Plane{{Width: w, Height: h, Data: img.Pix}}
	case container.ColorGrayscaleAlpha:
		y := extractChannel(img.Pix, w, h, 2, 0)
		a := extractChannel(img.Pix, w, h, 2, 1)
		return []lossy.Plane{
			{Width: w, Height: h, Data: y},
			{Width: w, Height: h, Data: a},
		}
	case container.ColorRGB, container.ColorRGBA:
		channels := img.ColorType.Channels()
		y, cb, cr := colormodel.ConvertRGBToYCbCrPlanes(img.Pix, w, h, channels, space)
		w2, h2 := (w+1)/2, (h+1)/2
		cbSub := colormodel.Downsample420(cb, w, h)
		crSub := colormodel.Downsample420(cr, w, h)
		planes := []lossy.Plane{
			{Width: w, Height: h, Data: y},
			{Width: w2, Height: h2, Data: cbSub, IsChroma: true},
			{Width: w2, Height: h2, Data: crSub, IsChroma: true},
		}
		if img.ColorType == container.ColorRGBA {
			alpha := extractChannel(img.Pix, w, h, channels, 3)
			planes = append(planes, lossy.Plane{Width: w, Height: h, Data: alpha})
		}
		return planes
	case container.ColorYUV420:
		w2, h2 := (w+1)/2, (h+1)/2
		n := w * h
		n2 := w2 * h2
		return []lossy.Plane{
			{Width: w, Height: h, Data: img.Pix[0:n]},
			{Width: w2, Height: h2, Data: img.Pix[n : n+n2], IsChroma: true},
			{Width: w2, Height: h2, Data: img.Pix[n+n2 : n+2*n2], IsChroma: true},
		}
	case container.ColorYUV444:
		n := w * h
		return []lossy.Plane{
			{Width: w, Height: h, Data: img.Pix[0:n]},
			{Width: w, Height: h, Data: img.Pix[n : 2*n], IsChroma: true},
			{Width: w, Height: h, Data: img.Pix[2*n : 3*n], IsChroma: true},
		}
	default:
		return nil
	}
}

// extractChannel pulls one interleaved channel out of a packed pixel
// buffer into its own tightly packed plane.
func extractChannel(pix []byte, width, height, channels, idx int) []byte {
	out := make([]byte, width*height)
	for i := 0; i < width*height; i++ {
		out[i] = pix[i*channels+idx]
	}
	return out
}
