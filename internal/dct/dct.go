// Package dct hides a bit stream in the frequency domain of a single 8-bit plane,
// one bit per 8x8 block, in the sign of a mid-frequency coefficient.
package dct

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/zedseven/steg/v2/internal/frame"
)

const (
	// CoefRow and CoefCol locate the coefficient that carries the bit.
	CoefRow, CoefCol = 4, 4
	// DefaultDelta is the push applied to the carrying coefficient, on a 0-255 sample scale.
	DefaultDelta = 20.0
	// attempts bounds how often Δ is doubled when rounding or clamping flips a block's bit.
	attempts = 6
)

// ErrNoMarker is returned by Extract when the bit budget runs out before an end marker is seen.
var ErrNoMarker = errors.New("no end marker found within the DCT bit budget")

// Options tunes Embed.
type Options struct {
	// Delta is the magnitude added to or subtracted from the carrying coefficient. Zero means DefaultDelta.
	Delta float64
	// Workers bounds the number of blocks transformed concurrently. Zero means runtime.NumCPU().
	Workers int
}

// CapacityError is returned when more bits are offered than the plane has blocks.
type CapacityError struct {
	Bits, Blocks int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%d bits do not fit into %d blocks", e.Bits, e.Blocks)
}

// UnembeddableBlockError is returned when a block cannot be made to carry its bit.
type UnembeddableBlockError struct {
	Block int
	Bit   uint8
}

func (e *UnembeddableBlockError) Error() string {
	return fmt.Sprintf("block %d could not be made to carry bit %d", e.Block, e.Bit)
}

// Embed writes bit k into block k, row-major. Blocks past len(bits) are left untouched.
// Blocks only depend on their own samples, so they are processed concurrently.
func Embed(p *Plane, bits []uint8, opts Options) error {
	if len(bits) > p.Blocks() {
		return &CapacityError{Bits: len(bits), Blocks: p.Blocks()}
	}
	delta := opts.Delta
	if delta <= 0 {
		delta = DefaultDelta
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for k, bit := range bits {
		k, bit := k, bit
		g.Go(func() error {
			return embedBlock(p, k, bit&1, delta)
		})
	}
	return g.Wait()
}

func embedBlock(p *Plane, k int, bit uint8, delta float64) error {
	src := p.load(k)
	coef := Forward(&src)
	base := coef[CoefRow][CoefCol]

	for i := 0; i < attempts; i++ {
		c := coef
		if bit == 1 {
			c[CoefRow][CoefCol] = math.Max(base, 0) + delta
		} else {
			c[CoefRow][CoefCol] = math.Min(base, 0) - delta
		}
		out := Inverse(&c)
		quantize(&out)

		// Decoding sees exactly these samples, so check the bit against them.
		if check := Forward(&out); bitOf(check[CoefRow][CoefCol]) == bit {
			p.store(k, &out)
			return nil
		}
		delta *= 2
	}
	return &UnembeddableBlockError{Block: k, Bit: bit}
}

// Extract reads one bit per block, row-major, until the end marker or budget bits.
// A budget of zero or less means every block.
func Extract(p *Plane, budget int) ([]uint8, error) {
	n := p.Blocks()
	if budget > 0 && budget < n {
		n = budget
	}
	var scanner frame.Scanner
	for k := 0; k < n; k++ {
		src := p.load(k)
		coef := Forward(&src)
		if scanner.Push(bitOf(coef[CoefRow][CoefCol])) {
			return scanner.Payload(), nil
		}
	}
	return nil, ErrNoMarker
}

func bitOf(c float64) uint8 {
	if c > 0 {
		return 1
	}
	return 0
}

// quantize rounds every sample and clamps it to [0, 255].
func quantize(b *Block) {
	for y := range b {
		for x := range b[y] {
			b[y][x] = math.Max(0, math.Min(255, math.Round(b[y][x])))
		}
	}
}
