// Package dsp provides the per-8x8-block signal processing stages of the
// lossy pipeline: the forward/inverse DCT and zig-zag scan, quantization
// table derivation and adaptive QP selection, intra-block prediction, and
// the in-loop deblocking filter.
package dsp

import "math"

const invSqrt2 = 0.7071067811865475

func alpha(u int) float64 {
	if u == 0 {
		return invSqrt2
	}
	return 1.0
}

// cosTable[x][u] = cos((2x+1)*u*pi/16), precomputed once for all 8x8 blocks.
var cosTable [8][8]float64

func init() {
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			cosTable[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16.0)
		}
	}
}

// Block is a raster-order 8x8 tile of signed 16-bit samples or coefficients.
type Block = [64]int16

// ForwardDCT computes the reference real-arithmetic 8x8 forward DCT,
// rounding each output coefficient to the nearest integer.
func ForwardDCT(block *Block) *Block {
	var out Block
	var temp [64]float64
	for v := 0; v < 8; v++ {
		for u := 0; u < 8; u++ {
			sum := 0.0
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					pixel := float64(block[y*8+x])
					sum += pixel * cosTable[x][u] * cosTable[y][v]
				}
			}
			temp[v*8+u] = 0.25 * alpha(u) * alpha(v) * sum
		}
	}
	for i := range out {
		out[i] = int16(math.Round(temp[i]))
	}
	return &out
}

// InverseDCT computes the reference real-arithmetic 8x8 inverse DCT.
func InverseDCT(coeffs *Block) *Block {
	var out Block
	var temp [64]float64
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sum := 0.0
			for v := 0; v < 8; v++ {
				for u := 0; u < 8; u++ {
					coeff := float64(coeffs[v*8+u])
					sum += alpha(u) * alpha(v) * coeff * cosTable[x][u] * cosTable[y][v]
				}
			}
			temp[y*8+x] = 0.25 * sum
		}
	}
	for i := range out {
		out[i] = int16(math.Round(temp[i]))
	}
	return &out
}

// ZigZagOrder maps a 1D scan index to its 2D raster-order block index.
// It concentrates low-frequency coefficients at the start of the scan.
var ZigZagOrder = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10, 17, 24, 32, 25, 18, 11, 4, 5, 12, 19, 26, 33, 40, 48, 41, 34, 27, 20,
	13, 6, 7, 14, 21, 28, 35, 42, 49, 56, 57, 50, 43, 36, 29, 22, 15, 23, 30, 37, 44, 51, 58, 59,
	52, 45, 38, 31, 39, 46, 53, 60, 61, 54, 47, 55, 62, 63,
}

// ZigZagScan reorders a raster-order block into zig-zag scan order.
func ZigZagScan(block *Block) *Block {
	var out Block
	for i, idx := range ZigZagOrder {
		out[i] = block[idx]
	}
	return &out
}

// ZigZagUnscan is the inverse of ZigZagScan.
func ZigZagUnscan(scanned *Block) *Block {
	var out Block
	for i, idx := range ZigZagOrder {
		out[idx] = scanned[i]
	}
	return &out
}
