package carrier

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

func noisyImage(w, h int, seed int64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	rand.New(rand.NewSource(seed)).Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// makeWAV writes a canonical PCM WAV with a trailing LIST chunk.
func makeWAV(bitsPerSample, channels int, frames [][]int32) []byte {
	bytesPer := bitsPerSample / 8
	blockAlign := bytesPer * channels
	data := make([]byte, 0, len(frames)*blockAlign)
	for _, fr := range frames {
		for _, v := range fr {
			switch bitsPerSample {
			case 8:
				data = append(data, uint8(v+128))
			case 16:
				data = binary.LittleEndian.AppendUint16(data, uint16(int16(v)))
			case 24:
				data = append(data, byte(v), byte(v>>8), byte(v>>16))
			default:
				data = binary.LittleEndian.AppendUint32(data, uint32(v))
			}
		}
	}
	list := []byte("INFOISFT\x04\x00\x00\x00test")

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(4+(8+16)+(8+len(data)+len(data)%2)+(8+len(list))))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(wavFormatPCM))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(8000))
	binary.Write(&buf, binary.LittleEndian, uint32(8000*blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	if len(data)%2 == 1 {
		buf.WriteByte(0)
	}
	buf.WriteString("LIST")
	binary.Write(&buf, binary.LittleEndian, uint32(len(list)))
	buf.Write(list)
	return buf.Bytes()
}

func toneFrames(n, channels int, seed int64) [][]int32 {
	r := rand.New(rand.NewSource(seed))
	frames := make([][]int32, n)
	for i := range frames {
		frames[i] = make([]int32, channels)
		for ch := range frames[i] {
			frames[i][ch] = int32(r.Intn(20000) - 10000)
		}
	}
	return frames
}

const flacBlockSize = 1024

// makeFLAC encodes mono 16-bit samples; len(samples) must be a multiple of flacBlockSize.
func makeFLAC(t *testing.T, samples []int32) []byte {
	t.Helper()
	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    44100,
		NChannels:     1,
		BitsPerSample: 16,
		NSamples:      uint64(len(samples)),
	}
	var buf bytes.Buffer
	enc, err := flac.NewEncoder(&buf, info)
	require.NoError(t, err)
	for i := 0; i*flacBlockSize < len(samples); i++ {
		chunk := append([]int32(nil), samples[i*flacBlockSize:(i+1)*flacBlockSize]...)
		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         flacBlockSize,
				SampleRate:        44100,
				Channels:          frame.ChannelsMono,
				BitsPerSample:     16,
				Num:               uint64(i),
			},
			Subframes: []*frame.Subframe{{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   chunk,
				NSamples:  flacBlockSize,
			}},
		}
		require.NoError(t, enc.WriteFrame(f))
	}
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

// makeAVI writes a minimal MJPEG AVI: RIFF header, an hdrl list and a movi list of frames.
func makeAVI(t *testing.T, frames ...image.Image) []byte {
	t.Helper()
	var movi bytes.Buffer
	movi.WriteString("movi")
	for _, img := range frames {
		var jb bytes.Buffer
		require.NoError(t, jpeg.Encode(&jb, img, &jpeg.Options{Quality: 95}))
		movi.WriteString("00dc")
		binary.Write(&movi, binary.LittleEndian, uint32(jb.Len()))
		movi.Write(jb.Bytes())
		if jb.Len()%2 != 0 {
			movi.WriteByte(0)
		}
	}

	var hdrl bytes.Buffer
	hdrl.WriteString("hdrl")
	hdrl.WriteString("avih")
	binary.Write(&hdrl, binary.LittleEndian, uint32(56))
	hdrl.Write(make([]byte, 56))

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(4+8+hdrl.Len()+8+movi.Len()))
	buf.WriteString("AVI ")
	buf.WriteString("LIST")
	binary.Write(&buf, binary.LittleEndian, uint32(hdrl.Len()))
	buf.Write(hdrl.Bytes())
	buf.WriteString("LIST")
	binary.Write(&buf, binary.LittleEndian, uint32(movi.Len()))
	buf.Write(movi.Bytes())
	return buf.Bytes()
}

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}
