package carrier

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	wavMagic  = []byte("RIFF")
	flacMagic = []byte("fLaC")
)

// openAudio sniffs the container and hands off to the matching decoder.
func openAudio(data []byte, cfg Config) (Carrier, error) {
	offset := cfg.AudioOffset
	if offset == 0 {
		offset = DefaultAudioOffset
	}
	if offset < 0 || offset%2 == 0 {
		return nil, fmt.Errorf("audio offset must be a positive odd number, got %d", offset)
	}

	switch {
	case len(data) >= 12 && bytes.Equal(data[:4], wavMagic) && bytes.Equal(data[8:12], []byte("WAVE")):
		return openWAV(data, int32(offset))
	case len(data) >= 4 && bytes.Equal(data[:4], flacMagic):
		return openFLAC(data, int32(offset))
	default:
		return nil, &FormatError{Kind: "audio", Err: errors.New("unrecognised container, expected WAV or FLAC")}
	}
}

// amplitudeSamples exposes integer PCM amplitudes as bit carriers.
// A sample carries the parity of its amplitude. When the parity has to change the amplitude
// is nudged by an odd offset instead of having its low bit rewritten, so the view also works
// when the amplitudes are not stored as plain two's complement bytes.
type amplitudeSamples struct {
	n      int
	get    func(i int) int32
	set    func(i int, v int32)
	lo, hi int32
	offset int32
}

func (s *amplitudeSamples) Len() int {
	return s.n
}

func (s *amplitudeSamples) Bit(i int) uint8 {
	return uint8(s.get(i) & 1)
}

func (s *amplitudeSamples) SetBit(i int, bit uint8) {
	v := s.get(i)
	if uint8(v&1) == bit&1 {
		return
	}
	if int64(v)+int64(s.offset) > int64(s.hi) && int64(v)-int64(s.offset) >= int64(s.lo) {
		v -= s.offset
	} else {
		v += s.offset
	}
	s.set(i, v)
}

// amplitudeRange returns the signed range of a bitsPerSample-wide sample.
func amplitudeRange(bitsPerSample int) (lo, hi int32) {
	hi = int32(int64(1)<<(bitsPerSample-1) - 1)
	lo = -hi - 1
	return
}
