package steg

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
	"github.com/stretchr/testify/require"
)

func pngFile(t *testing.T, img image.Image) *File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &File{Name: "carrier.png", MediaType: "image/png", Data: buf.Bytes()}
}

func noisyImage(w, h int, seed int64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	rand.New(rand.NewSource(seed)).Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

// smoothImage is a gradient with mild noise, the kind of content the DCT engine is meant for.
func smoothImage(w, h int, seed int64) *image.NRGBA {
	r := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(64 + (x+y)*128/(w+h) + r.Intn(8))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v / 2, B: 255 - v, A: 255})
		}
	}
	return img
}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func randomSamples(n int, seed int64) []int16 {
	r := rand.New(rand.NewSource(seed))
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(r.Intn(20000) - 10000)
	}
	return out
}

// wavFile writes a mono 16-bit PCM WAV.
func wavFile(samples []int16) *File {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(4+(8+16)+(8+2*len(samples))))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(8000))
	binary.Write(&buf, binary.LittleEndian, uint32(16000))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(2*len(samples)))
	if len(samples) > 0 {
		binary.Write(&buf, binary.LittleEndian, samples)
	}
	return &File{Name: "carrier.wav", MediaType: "audio/wav", Data: buf.Bytes()}
}

// flacFile encodes a single 1024-sample mono 16-bit frame.
func flacFile(t *testing.T, samples []int16) *File {
	t.Helper()
	const blockSize = 1024
	require.Len(t, samples, blockSize)
	pcm := make([]int32, blockSize)
	for i, v := range samples {
		pcm[i] = int32(v)
	}

	info := &meta.StreamInfo{
		BlockSizeMin:  blockSize,
		BlockSizeMax:  blockSize,
		SampleRate:    44100,
		NChannels:     1,
		BitsPerSample: 16,
		NSamples:      blockSize,
	}
	var buf bytes.Buffer
	enc, err := flac.NewEncoder(&buf, info)
	require.NoError(t, err)
	require.NoError(t, enc.WriteFrame(&frame.Frame{
		Header: frame.Header{
			HasFixedBlockSize: true,
			BlockSize:         blockSize,
			SampleRate:        44100,
			Channels:          frame.ChannelsMono,
			BitsPerSample:     16,
		},
		Subframes: []*frame.Subframe{{
			SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
			Samples:   pcm,
			NSamples:  blockSize,
		}},
	}))
	require.NoError(t, enc.Close())
	return &File{Name: "carrier.flac", MediaType: "audio/flac", Data: buf.Bytes()}
}

// aviFile writes a minimal MJPEG AVI holding the given frames.
func aviFile(t *testing.T, frames ...image.Image) *File {
	t.Helper()
	var movi bytes.Buffer
	movi.WriteString("movi")
	for _, img := range frames {
		var jb bytes.Buffer
		require.NoError(t, jpeg.Encode(&jb, img, &jpeg.Options{Quality: 90}))
		movi.WriteString("00dc")
		binary.Write(&movi, binary.LittleEndian, uint32(jb.Len()))
		movi.Write(jb.Bytes())
		if jb.Len()%2 != 0 {
			movi.WriteByte(0)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(4+8+movi.Len()))
	buf.WriteString("AVI ")
	buf.WriteString("LIST")
	binary.Write(&buf, binary.LittleEndian, uint32(movi.Len()))
	buf.Write(movi.Bytes())
	return &File{Name: "carrier.avi", MediaType: "video/x-msvideo", Data: buf.Bytes()}
}

func artifactFile(a *Artifact) *File {
	return &File{Name: "artifact" + a.Ext, MediaType: a.MediaType, Data: a.Data}
}
