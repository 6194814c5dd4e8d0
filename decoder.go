package wk

import (
	"errors"
	"fmt"
	"io"

	"github.com/cowoksoftspoken/wk/animation"
	"github.com/cowoksoftspoken/wk/internal/colormodel"
	"github.com/cowoksoftspoken/wk/internal/container"
	"github.com/cowoksoftspoken/wk/internal/lossless"
	"github.com/cowoksoftspoken/wk/internal/lossy"
)

// decodeColorSpace is fixed at decode time: the color space used to build
// YCbCr planes on encode is not itself carried in the stream, so decode
// always inverts with the studio-range BT.601 transform that
// DefaultOptions selects. A caller that encoded with a different
// ColorSpace is responsible for keeping that choice out of band.
const decodeColorSpace = colormodel.YCbCr601

// chunkReadKind classifies a ReadChunk failure: a checksum failure is
// KindCrcMismatch, anything else KindIO.
func chunkReadKind(err error) Kind {
	if errors.Is(err, container.ErrCrcMismatch) {
		return KindCrcMismatch
	}
	return KindIO
}

func readHeader(cr *container.Reader) (container.Header, error) {
	c, err := cr.ReadChunk(false)
	if err != nil {
		return container.Header{}, newError(chunkReadKind(err), "read header chunk", err)
	}
	if c.Type != container.TypeHeader {
		return container.Header{}, newError(KindMissingChunk, "read header chunk", fmt.Errorf("wk: first chunk is %s, want IHDR", c.Type))
	}
	header, err := container.DecodeHeader(c.Data)
	if err != nil {
		return container.Header{}, newError(KindInvalidChunk, "parse header chunk", err)
	}
	return header, nil
}

func getFeatures(r io.Reader) (*Features, error) {
	cr := container.NewReader(r)
	if err := cr.VerifyMagic(); err != nil {
		return nil, newError(KindInvalidFormat, "verify magic", err)
	}
	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	return &Features{
		Width:        int(header.Width),
		Height:       int(header.Height),
		ColorType:    header.ColorType,
		Mode:         header.CompressionMode,
		HasAlpha:     header.HasAlpha,
		HasAnimation: header.HasAnimation,
	}, nil
}

func decode(r io.Reader) (*Image, error) {
	cr := container.NewReader(r)
	if err := cr.VerifyMagic(); err != nil {
		return nil, newError(KindInvalidFormat, "verify magic", err)
	}
	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	img := &Image{Raster: Raster{
		Width:     int(header.Width),
		Height:    int(header.Height),
		ColorType: header.ColorType,
	}}

	var dataChunk *container.Chunk
	for {
		c, err := cr.ReadChunk(false)
		if err != nil {
			return nil, newError(chunkReadKind(err), "read chunk", err)
		}
		switch c.Type {
		case container.TypeEnd:
			goto chunksDone
		case container.TypeICCP:
			var icc IccProfile
			if icc.UnmarshalBinary(c.Data) == nil {
				img.ICC = &icc
			}
		case container.TypeEXIF:
			var exif ExifData
			if exif.UnmarshalBinary(c.Data) == nil {
				img.Exif = &exif
			}
		case container.TypeXMP:
			var xmp XmpData
			if xmp.UnmarshalBinary(c.Data) == nil {
				img.Xmp = &xmp
			}
		case container.TypeCustom:
			var custom Custom
			if custom.UnmarshalBinary(c.Data) == nil {
				img.Custom = &custom
			}
		case container.TypeImageData, container.TypeImageLossy:
			chunkCopy := c
			dataChunk = &chunkCopy
		default:
			if _, ok := animation.Recognize(c.Type); ok {
				// Thumbnail/animation/frame chunks are valid but out of
				// scope; Recognize confirms the tag is a known one before
				// we skip it, rather than skipping blind.
				continue
			}
			// Any other unrecognized chunk type is skipped the same way.
		}
	}
chunksDone:

	if dataChunk == nil {
		return nil, newError(KindMissingChunk, "locate image data chunk", fmt.Errorf("wk: stream has no IDAT/IDLS chunk"))
	}

	pix, err := decodePixels(header, dataChunk.Data)
	if err != nil {
		return nil, newError(KindDecoding, "decode pixel data", err)
	}
	img.Pix = pix
	return img, nil
}

func decodePixels(header container.Header, payload []byte) ([]byte, error) {
	width, height := int(header.Width), int(header.Height)
	channels := header.ColorType.Channels()

	if header.CompressionMode == container.Lossless {
		filtered, err := lossless.DecodeHuffman(payload)
		if err != nil {
			return nil, err
		}
		return lossless.ReversePredictor(filtered, width, height, channels)
	}

	dims := lossyPlaneDims(header.ColorType, width, height)
	var planes []lossy.Plane
	var err error
	if lossy.IsV3(payload) {
		planes, err = lossy.DecodeV3(payload, dims, header.Quality)
	} else {
		planes, err = lossy.DecodeLegacy(payload, dims, header.Quality)
	}
	if err != nil {
		return nil, err
	}
	return reconstructPix(header.ColorType, planes, width, height)
}

func lossyPlaneDims(ct ColorType, width, height int) []lossy.PlaneDims {
	w2, h2 := (width+1)/2, (height+1)/2
	switch ct {
	case container.ColorGrayscale:
		return []lossy.PlaneDims{{Width: width, Height: height}}
	case container.ColorGrayscaleAlpha:
		return []lossy.PlaneDims{{Width: width, Height: height}, {Width: width, Height: height}}
	case container.ColorRGB:
		return []lossy.PlaneDims{
			{Width: width, Height: height},
			{Width: w2, Height: h2, IsChroma: true},
			{Width: w2, Height: h2, IsChroma: true},
		}
	case container.ColorRGBA:
		return []lossy.PlaneDims{
			{Width: width, Height: height},
			{Width: w2, Height: h2, IsChroma: true},
			{Width: w2, Height: h2, IsChroma: true},
			{Width: width, Height: height},
		}
	case container.ColorYUV420:
		return []lossy.PlaneDims{
			{Width: width, Height: height},
			{Width: w2, Height: h2, IsChroma: true},
			{Width: w2, Height: h2, IsChroma: true},
		}
	case container.ColorYUV444:
		return []lossy.PlaneDims{
			{Width: width, Height: height},
			{Width: width, Height: height, IsChroma: true},
			{Width: width, Height: height, IsChroma: true},
		}
	default:
		return nil
	}
}

// reconstructPix inverts buildLossyPlanes, interleaving decoded planes back
// into the packed raster format Encode accepts.
func reconstructPix(ct ColorType, planes []lossy.Plane, width, height int) ([]byte, error) {
	switch ct {
	case container.ColorGrayscale:
		return planes[0].Data, nil
	case container.ColorGrayscaleAlpha:
		return interleave2(planes[0].Data, planes[1].Data), nil
	case container.ColorRGB, container.ColorRGBA:
		y := planes[0].Data
		cb := colormodel.Upsample420(planes[1].Data, planes[1].Width, planes[1].Height, width, height)
		cr := colormodel.Upsample420(planes[2].Data, planes[2].Width, planes[2].Height, width, height)
		channels := ct.Channels()
		rgb := colormodel.ConvertYCbCrPlanesToRGB(y, cb, cr, width, height, channels, decodeColorSpace)
		if ct == container.ColorRGBA {
			alpha := planes[3].Data
			for i := 0; i < width*height; i++ {
				rgb[i*4+3] = alpha[i]
			}
		}
		return rgb, nil
	case container.ColorYUV420, container.ColorYUV444:
		out := make([]byte, 0, len(planes[0].Data)+len(planes[1].Data)+len(planes[2].Data))
		out = append(out, planes[0].Data...)
		out = append(out, planes[1].Data...)
		out = append(out, planes[2].Data...)
		return out, nil
	default:
		return nil, fmt.Errorf("wk: cannot reconstruct color type %s", ct)
	}
}

func interleave2(a, b []byte) []byte {
	out := make([]byte, len(a)*2)
	for i := range a {
		out[i*2] = a[i]
		out[i*2+1] = b[i]
	}
	return out
}
