package carrier

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/zedseven/steg/v2/internal/dct"
	"github.com/zedseven/steg/v2/internal/lsb"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// wavCarrier modifies the data chunk of a copy of the original file in place, so every other
// chunk survives the rebuild untouched.
type wavCarrier struct {
	data          []byte
	channels      int
	sampleRate    int
	bitsPerSample int
	blockAlign    int
	dataOff       int
	frames        int
	offset        int32
}

func openWAV(src []byte, offset int32) (*wavCarrier, error) {
	c := &wavCarrier{data: append([]byte(nil), src...), offset: offset}
	if err := c.parse(); err != nil {
		return nil, &FormatError{Kind: "wav", Err: err}
	}
	if int(offset) > 1<<(c.bitsPerSample-2) {
		return nil, fmt.Errorf("audio offset %d is too large for %d-bit samples", offset, c.bitsPerSample)
	}
	return c, nil
}

func (c *wavCarrier) parse() error {
	var haveFmt, haveData bool
	pos := 12
	for pos+8 <= len(c.data) && !(haveFmt && haveData) {
		id := string(c.data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(c.data[pos+4 : pos+8]))
		body := pos + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(c.data) {
				return errors.New("fmt chunk is truncated")
			}
			format := binary.LittleEndian.Uint16(c.data[body:])
			if format == wavFormatExtensible && size >= 40 && body+26 <= len(c.data) {
				// The sub-format GUID starts with the plain format code.
				format = binary.LittleEndian.Uint16(c.data[body+24:])
			}
			if format != wavFormatPCM {
				return fmt.Errorf("unsupported WAV format %#x, only integer PCM is supported", format)
			}
			c.channels = int(binary.LittleEndian.Uint16(c.data[body+2:]))
			c.sampleRate = int(binary.LittleEndian.Uint32(c.data[body+4:]))
			c.blockAlign = int(binary.LittleEndian.Uint16(c.data[body+12:]))
			c.bitsPerSample = int(binary.LittleEndian.Uint16(c.data[body+14:]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return errors.New("data chunk precedes fmt chunk")
			}
			c.dataOff = body
			if body+size > len(c.data) {
				size = len(c.data) - body
			}
			if c.blockAlign > 0 {
				c.frames = size / c.blockAlign
			}
			haveData = true
		}

		// Chunks are padded to an even size
		pos = body + size + size%2
	}

	switch {
	case !haveFmt:
		return errors.New("missing fmt chunk")
	case !haveData:
		return errors.New("missing data chunk")
	case c.channels <= 0:
		return errors.New("no channels")
	}
	switch c.bitsPerSample {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("unsupported sample width of %d bits", c.bitsPerSample)
	}
	if c.blockAlign < c.channels*c.bitsPerSample/8 {
		return fmt.Errorf("block align %d is too small", c.blockAlign)
	}
	return nil
}

// sample reads channel 0 of frame i.
func (c *wavCarrier) sample(i int) int32 {
	b := c.data[c.dataOff+i*c.blockAlign:]
	switch c.bitsPerSample {
	case 8:
		// 8-bit WAV is unsigned
		return int32(b[0]) - 128
	case 16:
		return int32(int16(binary.LittleEndian.Uint16(b)))
	case 24:
		return int32(uint32(b[0])|uint32(b[1])<<8|uint32(b[2])<<16) << 8 >> 8
	default:
		return int32(binary.LittleEndian.Uint32(b))
	}
}

func (c *wavCarrier) setSample(i int, v int32) {
	b := c.data[c.dataOff+i*c.blockAlign:]
	switch c.bitsPerSample {
	case 8:
		b[0] = uint8(v + 128)
	case 16:
		binary.LittleEndian.PutUint16(b, uint16(int16(v)))
	case 24:
		b[0], b[1], b[2] = byte(v), byte(v>>8), byte(v>>16)
	default:
		binary.LittleEndian.PutUint32(b, uint32(v))
	}
}

func (c *wavCarrier) Samples() lsb.Samples {
	lo, hi := amplitudeRange(c.bitsPerSample)
	return &amplitudeSamples{
		n:      c.frames,
		get:    c.sample,
		set:    c.setSample,
		lo:     lo,
		hi:     hi,
		offset: c.offset,
	}
}

func (c *wavCarrier) Plane() (*dct.Plane, error) {
	return nil, ErrNoPlane
}

func (c *wavCarrier) Rebuild() (*Output, error) {
	return &Output{MediaType: "audio/wav", Ext: ".wav", Data: c.data}, nil
}

func (c *wavCarrier) Fields() logrus.Fields {
	return logrus.Fields{
		"format":        "wav",
		"channels":      c.channels,
		"sampleRate":    c.sampleRate,
		"bitsPerSample": c.bitsPerSample,
		"frames":        c.frames,
	}
}
