// Package frame builds and parses the bit stream that is physically hidden in a carrier:
// the key digest, the delimiter, the message bytes and the trailing end marker.
package frame

import (
	"fmt"

	"github.com/zedseven/binmani"
)

const (
	bitsPerByte uint8 = 8
	// EndMarker is appended to every frame. It is 15 set bits followed by a clear one,
	// a run that cannot occur inside UTF-8 text.
	EndMarker uint16 = 0xFFFE
	// MarkerBits is the width of EndMarker.
	MarkerBits = 16
)

// ToBits expands data into one bit per element, most-significant bit first.
func ToBits(data []byte) []uint8 {
	if len(data) == 0 {
		return []uint8{}
	}
	return *binmani.BytesToBits(&data)
}

// FromBits packs bits (most-significant bit first) back into bytes.
func FromBits(bits []uint8) ([]byte, error) {
	if len(bits)%int(bitsPerByte) != 0 {
		return nil, &MalformedError{Reason: fmt.Sprintf("%d bits do not make up whole bytes", len(bits))}
	}
	return *binmani.BitsToBytes(&bits), nil
}

// MarkerStream returns EndMarker as a bit slice.
func MarkerStream() []uint8 {
	bits := make([]uint8, MarkerBits)
	for i := range bits {
		bits[i] = uint8(binmani.ReadFrom(EndMarker, uint8(MarkerBits-i-1), 1))
	}
	return bits
}

// Encode binds message to key and returns the complete bit stream to embed, end marker included.
func Encode(key, message string) []uint8 {
	payload := ToBits(Bind(key, message))
	return append(payload, MarkerStream()...)
}

// Len returns the number of bits Encode produces for a message of messageBytes bytes.
func Len(messageBytes int) int {
	return (DigestLen+len(Delimiter)+messageBytes)*int(bitsPerByte) + MarkerBits
}

// MaxMessageBytes returns the longest message, in bytes, whose frame fits into capacity bits.
func MaxMessageBytes(capacity int) int {
	n := (capacity-MarkerBits)/int(bitsPerByte) - DigestLen - len(Delimiter)
	if n < 0 {
		return 0
	}
	return n
}

// Scanner accumulates extracted bits and reports when the trailing 16 bits match EndMarker.
type Scanner struct {
	bits   []uint8
	window uint16
}

// Push appends bit and reports whether the stream now ends with EndMarker.
func (s *Scanner) Push(bit uint8) bool {
	s.bits = append(s.bits, bit&1)
	s.window = s.window<<1 | uint16(bit&1)
	return len(s.bits) >= MarkerBits && s.window == EndMarker
}

// Payload returns every bit pushed before the end marker. Only meaningful once Push returned true.
func (s *Scanner) Payload() []uint8 {
	if len(s.bits) < MarkerBits {
		return nil
	}
	return s.bits[:len(s.bits)-MarkerBits]
}

// Count returns the number of bits pushed so far.
func (s *Scanner) Count() int {
	return len(s.bits)
}
