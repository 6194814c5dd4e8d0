// Package colormodel implements RGB<->YCbCr conversion across four color
// spaces (studio-range BT.601/709/2020 plus full-range JFIF) and 4:2:0
// chroma subsampling (box-average down, bilinear up).
package colormodel

import "math"

// Space identifies a color transform.
type Space int

const (
	RGB Space = iota
	YCbCr601
	YCbCr709
	YCbCr2020
	YCbCrFull
)

type coeffs struct {
	// forward RGB -> YCbCr, applied to RGB/255; the values already carry
	// the studio-range 219 (luma) and 224 (chroma) scaling, which the
	// inverse undoes with 255/219 and 255/224
	ky, kcb, kcr [3]float64
	// inverse YCbCr -> RGB
	crToR, cbToG, crToG, cbToB float64
}

var studioCoeffs = map[Space]coeffs{
	YCbCr601: {
		ky:    [3]float64{65.481, 128.553, 24.966},
		kcb:   [3]float64{-37.797, -74.203, 112.0},
		kcr:   [3]float64{112.0, -93.786, -18.214},
		crToR: 1.402, cbToG: -0.344136, crToG: -0.714136, cbToB: 1.772,
	},
	YCbCr709: {
		ky:    [3]float64{46.742, 157.243, 15.874},
		kcb:   [3]float64{-25.765, -86.674, 112.439},
		kcr:   [3]float64{112.439, -102.129, -10.310},
		crToR: 1.5748, cbToG: -0.1873, crToG: -0.4681, cbToB: 1.8556,
	},
	YCbCr2020: {
		ky:    [3]float64{46.559, 156.629, 16.812},
		kcb:   [3]float64{-25.494, -85.723, 111.217},
		kcr:   [3]float64{111.217, -101.370, -9.847},
		crToR: 1.4746, cbToG: -0.1646, crToG: -0.5714, cbToB: 1.8814,
	},
}

// RGBToYCbCr converts one RGB triplet to YCbCr in the given color space.
func RGBToYCbCr(r, g, b uint8, space Space) (y, cb, cr uint8) {
	rf, gf, bf := float64(r), float64(g), float64(b)
	switch space {
	case RGB:
		return r, g, b
	case YCbCrFull:
		yy := 0.299*rf + 0.587*gf + 0.114*bf
		cbv := 128.0 - 0.168736*rf - 0.331264*gf + 0.5*bf
		crv := 128.0 + 0.5*rf - 0.418688*gf - 0.081312*bf
		return clampRound(yy, 0, 255), clampRound(cbv, 0, 255), clampRound(crv, 0, 255)
	default:
		c := studioCoeffs[space]
		yy := 16.0 + c.ky[0]*rf/255.0 + c.ky[1]*gf/255.0 + c.ky[2]*bf/255.0
		cbv := 128.0 + c.kcb[0]*rf/255.0 + c.kcb[1]*gf/255.0 + c.kcb[2]*bf/255.0
		crv := 128.0 + c.kcr[0]*rf/255.0 + c.kcr[1]*gf/255.0 + c.kcr[2]*bf/255.0
		return clampRound(yy, 16, 235), clampRound(cbv, 16, 240), clampRound(crv, 16, 240)
	}
}

// YCbCrToRGB inverts RGBToYCbCr for the same color space.
func YCbCrToRGB(y, cb, cr uint8, space Space) (r, g, b uint8) {
	yf, cbf, crf := float64(y), float64(cb), float64(cr)
	switch space {
	case RGB:
		return y, cb, cr
	case YCbCrFull:
		cb1 := cbf - 128.0
		cr1 := crf - 128.0
		rr := yf + 1.402*cr1
		gg := yf - 0.344136*cb1 - 0.714136*cr1
		bb := yf + 1.772*cb1
		return clampRound(rr, 0, 255), clampRound(gg, 0, 255), clampRound(bb, 0, 255)
	default:
		c := studioCoeffs[space]
		y1 := (yf - 16.0) * 255.0 / 219.0
		cb1 := (cbf - 128.0) * 255.0 / 224.0
		cr1 := (crf - 128.0) * 255.0 / 224.0
		rr := y1 + c.crToR*cr1
		gg := y1 + c.cbToG*cb1 + c.crToG*cr1
		bb := y1 + c.cbToB*cb1
		return clampRound(rr, 0, 255), clampRound(gg, 0, 255), clampRound(bb, 0, 255)
	}
}

func clampRound(v, lo, hi float64) uint8 {
	v = math.Round(v)
	if v < lo {
		v = lo
	} else if v > hi {
		v = hi
	}
	return uint8(v)
}

// ConvertRGBToYCbCrPlanes splits an interleaved RGB(A) buffer into three
// separate Y/Cb/Cr planes, one sample per pixel, in the given color space.
func ConvertRGBToYCbCrPlanes(data []byte, width, height, channels int, space Space) (y, cb, cr []byte) {
	n := width * height
	y = make([]byte, n)
	cb = make([]byte, n)
	cr = make([]byte, n)
	for i := 0; i < n; i++ {
		off := i * channels
		yv, cbv, crv := RGBToYCbCr(data[off], data[off+1], data[off+2], space)
		y[i] = yv
		cb[i] = cbv
		cr[i] = crv
	}
	return
}

// ConvertYCbCrPlanesToRGB interleaves Y/Cb/Cr planes back into an RGB(A)
// buffer; when channels==4 the alpha byte is always forced to 255.
func ConvertYCbCrPlanesToRGB(y, cb, cr []byte, width, height, channels int, space Space) []byte {
	n := width * height
	out := make([]byte, 0, n*channels)
	for i := 0; i < n; i++ {
		r, g, b := YCbCrToRGB(y[i], cb[i], cr[i], space)
		out = append(out, r, g, b)
		if channels == 4 {
			out = append(out, 255)
		}
	}
	return out
}

// Downsample420 produces a 2x2 box-averaged plane at half resolution
// (rounded up), with edge samples clamped to the source plane bounds.
func Downsample420(data []byte, width, height int) []byte {
	w2 := (width + 1) / 2
	h2 := (height + 1) / 2
	out := make([]byte, 0, w2*h2)
	for y := 0; y < h2; y++ {
		for x := 0; x < w2; x++ {
			y0 := y * 2
			x0 := x * 2
			var sum, count uint32
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					yy := clampInt(y0+dy, 0, height-1)
					xx := clampInt(x0+dx, 0, width-1)
					sum += uint32(data[yy*width+xx])
					count++
				}
			}
			out = append(out, byte((sum+count/2)/count))
		}
	}
	return out
}

// Upsample420 reconstructs a full-resolution plane from a half-resolution
// one via bilinear interpolation between the 4 nearest chroma samples.
func Upsample420(data []byte, smallW, smallH, fullW, fullH int) []byte {
	out := make([]byte, fullW*fullH)
	for y := 0; y < fullH; y++ {
		for x := 0; x < fullW; x++ {
			sx := x / 2
			sy := y / 2
			fx := 0.0
			if x%2 != 0 {
				fx = 0.5
			}
			fy := 0.0
			if y%2 != 0 {
				fy = 0.5
			}
			x0 := clampInt(sx, 0, smallW-1)
			x1 := clampInt(sx+1, 0, smallW-1)
			y0 := clampInt(sy, 0, smallH-1)
			y1 := clampInt(sy+1, 0, smallH-1)
			v00 := float64(data[y0*smallW+x0])
			v10 := float64(data[y0*smallW+x1])
			v01 := float64(data[y1*smallW+x0])
			v11 := float64(data[y1*smallW+x1])
			v0 := v00*(1-fx) + v10*fx
			v1 := v01*(1-fx) + v11*fx
			v := v0*(1-fy) + v1*fy
			out[y*fullW+x] = clampRound(v, 0, 255)
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
