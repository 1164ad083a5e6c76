// Package lsb hides a bit stream in the least-significant bits of a carrier's samples.
// It knows nothing about media formats; carriers expose their eligible samples through Samples.
package lsb

import (
	"errors"

	"github.com/zedseven/steg/v2/internal/algos"
	"github.com/zedseven/steg/v2/internal/frame"
)

// ErrNoMarker is returned by Extract when the samples run out before an end marker is seen.
var ErrNoMarker = errors.New("no end marker found in the carrier samples")

// Samples is a flat, mutable view of a carrier's eligible samples in embedding order.
// Bit reports the payload bit a sample currently carries and SetBit makes it carry bit,
// leaving every other sample untouched.
type Samples interface {
	Len() int
	Bit(i int) uint8
	SetBit(i int, bit uint8)
}

// Embed writes bits into samples in order, one bit per sample.
// Samples past len(bits) are not touched.
func Embed(samples Samples, bits []uint8) error {
	next := algos.SequentialAddressor(int64(samples.Len()))
	for _, b := range bits {
		addr, err := next()
		if err != nil {
			return err
		}
		samples.SetBit(int(addr), b)
	}
	return nil
}

// Extract reads bits in embedding order until the trailing bits match the end marker,
// and returns everything before the marker.
func Extract(samples Samples) ([]uint8, error) {
	var scanner frame.Scanner
	next := algos.SequentialAddressor(int64(samples.Len()))
	for {
		addr, err := next()
		if err != nil {
			switch err.(type) {
			case *algos.EmptyPoolError:
				return nil, ErrNoMarker
			default:
				return nil, err
			}
		}
		if scanner.Push(samples.Bit(int(addr))) {
			return scanner.Payload(), nil
		}
	}
}
