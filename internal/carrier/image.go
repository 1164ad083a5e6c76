package carrier

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/sirupsen/logrus"
	"github.com/zedseven/binmani"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/zedseven/steg/v2/internal/dct"
	"github.com/zedseven/steg/v2/internal/lsb"
)

const (
	// channelsPerPix is the number of channels that carry bits; alpha is skipped.
	channelsPerPix uint8 = 3
	bytesPerPix          = 4
)

type imageCarrier struct {
	img    *image.NRGBA
	format string
	model  color.Model
}

func openImage(data []byte) (*imageCarrier, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &FormatError{Kind: "image", Err: err}
	}
	return &imageCarrier{img: toNRGBA(img), format: format, model: img.ColorModel()}, nil
}

// toNRGBA copies img into a fresh, zero-origin NRGBA buffer. Non-premultiplied storage keeps
// the colour of transparent pixels, which a premultiplied round trip would wipe.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch simg := img.(type) {
	case *image.NRGBA:
		for y := 0; y < b.Dy(); y++ {
			src := simg.Pix[simg.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src)
		}
	case *image.NRGBA64:
		// Image raw Pix arrays store multi-byte channel values big-endian, so the high byte comes first
		for y := 0; y < b.Dy(); y++ {
			src := simg.Pix[simg.PixOffset(b.Min.X, b.Min.Y+y):]
			for i := 0; i < dst.Stride; i++ {
				dst.Pix[y*dst.Stride+i] = src[i*2]
			}
		}
	default:
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	}
	return dst
}

func (c *imageCarrier) Samples() lsb.Samples {
	return &pixelSamples{pix: c.img.Pix, n: int64(c.img.Rect.Dx()) * int64(c.img.Rect.Dy()) * int64(channelsPerPix)}
}

// Plane returns the red channel.
func (c *imageCarrier) Plane() (*dct.Plane, error) {
	return &dct.Plane{
		Width:  c.img.Rect.Dx(),
		Height: c.img.Rect.Dy(),
		Pix:    c.img.Pix,
		Stride: c.img.Stride,
		Step:   bytesPerPix,
	}, nil
}

func (c *imageCarrier) Rebuild() (*Output, error) {
	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(&buf, c.img); err != nil {
		return nil, err
	}
	return &Output{MediaType: "image/png", Ext: ".png", Data: buf.Bytes()}, nil
}

func (c *imageCarrier) Fields() logrus.Fields {
	return logrus.Fields{
		"format": c.format,
		"width":  c.img.Rect.Dx(),
		"height": c.img.Rect.Dy(),
		"model":  colourModelToStr(c.model),
	}
}

// pixelSamples addresses the R, G and B bytes of a tightly packed NRGBA buffer.
type pixelSamples struct {
	pix []uint8
	n   int64
}

func (s *pixelSamples) Len() int {
	return int(s.n)
}

func (s *pixelSamples) offset(i int) int {
	p, c, _ := bitAddrToPCB(int64(i), channelsPerPix, 1)
	return int(p)*bytesPerPix + int(c)
}

func (s *pixelSamples) Bit(i int) uint8 {
	return uint8(binmani.ReadFrom(uint16(s.pix[s.offset(i)]), 0, 1))
}

func (s *pixelSamples) SetBit(i int, bit uint8) {
	o := s.offset(i)
	s.pix[o] = uint8(binmani.WriteTo(uint16(s.pix[o]), 0, 1, uint16(bit&1)))
}

// PCB = Pixel, Channel, Bit
func bitAddrToPCB(addr int64, channels, bitsPerChannel uint8) (pix int64, channel, bit uint8) {
	// Would normally floor here, but since all values are >= 0, integer division handles this for us
	pix = addr / int64(channels*bitsPerChannel)
	channel = uint8((addr / int64(bitsPerChannel)) % int64(channels))
	bit = uint8(addr % int64(bitsPerChannel))
	return
}

func colourModelToStr(model color.Model) string {
	switch model {
	case color.Alpha16Model:
		return "Alpha16"
	case color.AlphaModel:
		return "Alpha"
	case color.CMYKModel:
		return "CMYK"
	case color.Gray16Model:
		return "Gray16"
	case color.GrayModel:
		return "Gray"
	case color.NRGBA64Model:
		return "NRGBA64"
	case color.NRGBAModel:
		return "NRGBA"
	case color.RGBA64Model:
		return "RGBA64"
	case color.RGBAModel:
		return "RGBA"
	case color.NYCbCrAModel:
		return "NYCbCrA"
	case color.YCbCrModel:
		return "YCbCr"
	default:
		if _, ok := model.(color.Palette); ok {
			return "Paletted"
		}
		return "<Unknown>"
	}
}
