package dct

import "math"

// BlockSize is the edge length of a transform block.
const BlockSize = 8

// Block is an 8x8 array of samples or coefficients, indexed [row][column].
type Block [BlockSize][BlockSize]float64

// basis[u][x] = c(u) * cos((2x+1)uπ/16), with c(0) = √(1/8) and c(u) = √(2/8) otherwise.
// With this scaling the transform is orthonormal.
var basis = func() (b [BlockSize][BlockSize]float64) {
	for u := 0; u < BlockSize; u++ {
		c := math.Sqrt(2.0 / BlockSize)
		if u == 0 {
			c = math.Sqrt(1.0 / BlockSize)
		}
		for x := 0; x < BlockSize; x++ {
			b[u][x] = c * math.Cos(float64(2*x+1)*float64(u)*math.Pi/(2*BlockSize))
		}
	}
	return
}()

// Forward applies the 2-D DCT-II to src.
func Forward(src *Block) (out Block) {
	var tmp Block
	// Rows first, then columns.
	for y := 0; y < BlockSize; y++ {
		for v := 0; v < BlockSize; v++ {
			var sum float64
			for x := 0; x < BlockSize; x++ {
				sum += basis[v][x] * src[y][x]
			}
			tmp[y][v] = sum
		}
	}
	for v := 0; v < BlockSize; v++ {
		for u := 0; u < BlockSize; u++ {
			var sum float64
			for y := 0; y < BlockSize; y++ {
				sum += basis[u][y] * tmp[y][v]
			}
			out[u][v] = sum
		}
	}
	return
}

// Inverse applies the 2-D DCT-III to coef, undoing Forward.
func Inverse(coef *Block) (out Block) {
	var tmp Block
	for v := 0; v < BlockSize; v++ {
		for y := 0; y < BlockSize; y++ {
			var sum float64
			for u := 0; u < BlockSize; u++ {
				sum += basis[u][y] * coef[u][v]
			}
			tmp[y][v] = sum
		}
	}
	for y := 0; y < BlockSize; y++ {
		for x := 0; x < BlockSize; x++ {
			var sum float64
			for v := 0; v < BlockSize; v++ {
				sum += basis[v][x] * tmp[y][v]
			}
			out[y][x] = sum
		}
	}
	return
}
