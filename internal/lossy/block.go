package lossy

import (
	"github.com/cowoksoftspoken/wk/internal/dsp"
	"github.com/cowoksoftspoken/wk/internal/pool"
)

const blockSize = 8

// Plane is a single 8-bit channel plane (one value per pixel, row-major).
type Plane struct {
	Width, Height int
	Data          []uint8
	IsChroma      bool
}

// PlaneDims is the decode-side counterpart of Plane: the caller (the
// color-model/container layer) already knows every plane's dimensions and
// channel role before any bytes are decoded.
type PlaneDims struct {
	Width, Height int
	IsChroma      bool
}

func padDimension(n int) int {
	return (n + blockSize - 1) / blockSize * blockSize
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

// padPlane edge-replicates a plane up to the next multiple of 8 in both
// dimensions, returning the padded buffer and its dimensions.
func padPlane(p Plane) (data []uint8, pw, ph int) {
	pw = padDimension(p.Width)
	ph = padDimension(p.Height)
	data = pool.Get(pw * ph)
	for y := 0; y < ph; y++ {
		sy := clampInt(y, 0, p.Height-1)
		srcRow := p.Data[sy*p.Width : (sy+1)*p.Width]
		dstRow := data[y*pw : (y+1)*pw]
		for x := 0; x < pw; x++ {
			sx := clampInt(x, 0, p.Width-1)
			dstRow[x] = srcRow[sx]
		}
	}
	return
}

// cropPlane extracts the top-left width x height region of a padded buffer.
func cropPlane(padded []uint8, pw, width, height int) []uint8 {
	out := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		copy(out[y*width:(y+1)*width], padded[y*pw:y*pw+width])
	}
	return out
}

// getBlock extracts the 8x8 tile at (bx,by) from a padded plane as signed
// 16-bit samples, raster order.
func getBlock(padded []uint8, pw, bx, by int) *dsp.Block {
	var blk dsp.Block
	base := by*blockSize*pw + bx*blockSize
	for dy := 0; dy < blockSize; dy++ {
		row := padded[base+dy*pw : base+dy*pw+blockSize]
		for dx := 0; dx < blockSize; dx++ {
			blk[dy*blockSize+dx] = int16(row[dx])
		}
	}
	return &blk
}

func blockToSamples(blk *dsp.Block) []uint8 {
	out := make([]uint8, blockSize*blockSize)
	for i, v := range blk {
		out[i] = uint8(v)
	}
	return out
}

func samplesFromResidual(residual *dsp.Block) []int16 {
	out := make([]int16, blockSize*blockSize)
	copy(out, residual[:])
	return out
}

// setBlock writes reconstructed 8-bit samples back into a padded plane at
// (bx,by); subsequent blocks read these values as prediction neighbors.
func setBlock(padded []uint8, pw, bx, by int, samples []uint8) {
	base := by*blockSize*pw + bx*blockSize
	for dy := 0; dy < blockSize; dy++ {
		copy(padded[base+dy*pw:base+dy*pw+blockSize], samples[dy*blockSize:(dy+1)*blockSize])
	}
}

// topRow returns up to 2*blockSize reconstructed samples from the row
// directly above block (bx,by), replicating the last in-bounds column past
// the plane's right edge. Returns nil for by==0 (no reliable top neighbor).
func topRow(padded []uint8, pw, ph, bx, by int) []uint8 {
	if by == 0 {
		return nil
	}
	y := by*blockSize - 1
	out := make([]uint8, 2*blockSize)
	rowBase := y * pw
	for i := range out {
		x := clampInt(bx*blockSize+i, 0, pw-1)
		out[i] = padded[rowBase+x]
	}
	return out
}

// leftCol returns 2*blockSize samples from the column directly left of block
// (bx,by): the blockSize reconstructed samples beside the block, then its
// last row repeated, since the block below-left is not reconstructed yet.
// Returns nil for bx==0 (no reliable left neighbor).
func leftCol(padded []uint8, pw, ph, bx, by int) []uint8 {
	if bx == 0 {
		return nil
	}
	x := bx*blockSize - 1
	out := make([]uint8, 2*blockSize)
	for i := range out {
		y := clampInt(by*blockSize+i, 0, by*blockSize+blockSize-1)
		out[i] = padded[y*pw+x]
	}
	return out
}

// topLeftSample returns the corner sample diagonally above-left of block
// (bx,by), or 128 when either neighbor is unreliable.
func topLeftSample(padded []uint8, pw, bx, by int) uint8 {
	if bx == 0 || by == 0 {
		return 128
	}
	return padded[(by*blockSize-1)*pw+(bx*blockSize-1)]
}
