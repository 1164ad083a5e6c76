// Package carrier turns encoded media files into flat sample views the embedding engines can work on,
// and turns the modified samples back into a lossless file.
package carrier

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zedseven/steg/v2/internal/dct"
	"github.com/zedseven/steg/v2/internal/lsb"
)

// DefaultAudioOffset is the amplitude step used to flip an audio sample's parity.
const DefaultAudioOffset = 1

// ErrNoPlane is returned by Plane for carriers that have no image plane.
var ErrNoPlane = errors.New("carrier has no image plane")

// Carrier is a decoded media file. Every call to Open decodes into fresh buffers that the
// Carrier owns; mutating them never touches the caller's data.
type Carrier interface {
	// Samples returns the LSB view of the carrier, in embedding order.
	Samples() lsb.Samples
	// Plane returns the 8-bit plane the DCT engine works on.
	Plane() (*dct.Plane, error)
	// Rebuild encodes the (possibly modified) samples into a lossless file.
	Rebuild() (*Output, error)
	// Fields describes the carrier for logging.
	Fields() logrus.Fields
}

// Output is a rebuilt carrier file.
type Output struct {
	MediaType string
	Ext       string
	Data      []byte
}

// Config tunes how carriers are opened.
type Config struct {
	// AudioOffset is the odd amplitude step added to or subtracted from an audio sample whose parity
	// differs from the bit it has to carry.
	AudioOffset int
}

// UnsupportedError is returned by Open when no adapter handles the media type.
type UnsupportedError struct {
	MediaType string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("no carrier adapter for media type %q", e.MediaType)
}

// FormatError is returned when a carrier file cannot be decoded.
type FormatError struct {
	Kind string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("decode %s carrier: %v", e.Kind, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Open decodes data according to the prefix of mediaType.
func Open(mediaType string, data []byte, cfg Config) (Carrier, error) {
	switch Kind(mediaType) {
	case "image":
		return openImage(data)
	case "audio":
		return openAudio(data, cfg)
	case "video":
		return openVideo(data)
	default:
		return nil, &UnsupportedError{MediaType: mediaType}
	}
}

// Kind returns the top-level type of mediaType ("image", "audio", "video", ...), lowercased.
func Kind(mediaType string) string {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	kind, _, ok := strings.Cut(mt, "/")
	if !ok {
		return ""
	}
	return kind
}
