package carrier

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
	"github.com/sirupsen/logrus"

	"github.com/zedseven/steg/v2/internal/dct"
	"github.com/zedseven/steg/v2/internal/lsb"
)

// flacCarrier keeps every decoded frame in memory. Channel 0 samples are flattened into
// channel0 for embedding and written back into the frames on rebuild.
type flacCarrier struct {
	info     meta.StreamInfo
	blocks   []*meta.Block
	frames   []*frame.Frame
	channel0 []int32
	offset   int32
}

func openFLAC(data []byte, offset int32) (*flacCarrier, error) {
	stream, err := flac.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &FormatError{Kind: "flac", Err: err}
	}
	defer stream.Close()

	c := &flacCarrier{info: *stream.Info, blocks: stream.Blocks, offset: offset}
	if int(offset) > 1<<(c.info.BitsPerSample-2) {
		return nil, fmt.Errorf("audio offset %d is too large for %d-bit samples", offset, c.info.BitsPerSample)
	}
	for {
		f, err := stream.ParseNext()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, &FormatError{Kind: "flac", Err: err}
		}
		c.frames = append(c.frames, f)
		c.channel0 = append(c.channel0, f.Subframes[0].Samples...)
	}
	return c, nil
}

func (c *flacCarrier) Samples() lsb.Samples {
	lo, hi := amplitudeRange(int(c.info.BitsPerSample))
	return &amplitudeSamples{
		n:      len(c.channel0),
		get:    func(i int) int32 { return c.channel0[i] },
		set:    func(i int, v int32) { c.channel0[i] = v },
		lo:     lo,
		hi:     hi,
		offset: c.offset,
	}
}

func (c *flacCarrier) Plane() (*dct.Plane, error) {
	return nil, ErrNoPlane
}

// Rebuild re-encodes the stream. Subframes are written verbatim: the original predictor,
// constant or wasted-bits encodings may no longer describe the modified samples.
func (c *flacCarrier) Rebuild() (*Output, error) {
	info := c.info
	// The samples changed, so the original checksum no longer holds. Zero means unknown.
	info.MD5sum = [16]uint8{}

	var buf bytes.Buffer
	enc, err := flac.NewEncoder(&buf, &info, c.blocks...)
	if err != nil {
		return nil, err
	}

	pos := 0
	for _, f := range c.frames {
		sub := f.Subframes[0]
		pos += copy(sub.Samples, c.channel0[pos:])
		for _, s := range f.Subframes {
			s.Pred = frame.PredVerbatim
			s.Wasted = 0
		}
		if err := enc.WriteFrame(f); err != nil {
			return nil, fmt.Errorf("write frame %d: %w", f.Num, err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return &Output{MediaType: "audio/flac", Ext: ".flac", Data: buf.Bytes()}, nil
}

func (c *flacCarrier) Fields() logrus.Fields {
	return logrus.Fields{
		"format":        "flac",
		"channels":      c.info.NChannels,
		"sampleRate":    c.info.SampleRate,
		"bitsPerSample": c.info.BitsPerSample,
		"frames":        len(c.frames),
		"samples":       len(c.channel0),
	}
}
