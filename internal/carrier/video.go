package carrier

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/sirupsen/logrus"
)

// videoCarrier is the first frame of a video, treated as a still image. Every later frame is
// ignored, so the capacity is that of a single frame whatever the duration.
type videoCarrier struct {
	*imageCarrier
	container string
}

func openVideo(data []byte) (*videoCarrier, error) {
	frameData, err := firstAVIFrame(data)
	if err != nil {
		return nil, &FormatError{Kind: "video", Err: err}
	}
	img, err := openImage(frameData)
	if err != nil {
		return nil, &FormatError{Kind: "video", Err: err}
	}
	return &videoCarrier{imageCarrier: img, container: "avi"}, nil
}

func (c *videoCarrier) Fields() logrus.Fields {
	f := c.imageCarrier.Fields()
	f["container"] = c.container
	f["frames"] = "first only"
	return f
}

// firstAVIFrame walks a RIFF/AVI file and returns the payload of the first compressed video
// chunk ("##dc") in the movi list. MJPEG frames are plain JPEG images.
func firstAVIFrame(data []byte) ([]byte, error) {
	if len(data) < 12 || !bytes.Equal(data[:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("AVI ")) {
		return nil, errors.New("not a RIFF/AVI file")
	}
	end := 8 + int(binary.LittleEndian.Uint32(data[4:8]))
	if end > len(data) {
		end = len(data)
	}

	pos := 12
	for pos+12 <= end {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		if id == "LIST" && string(data[pos+8:pos+12]) == "movi" {
			listEnd := pos + 8 + size
			if listEnd > end {
				listEnd = end
			}
			return firstVideoChunk(data, pos+12, listEnd)
		}
		pos += 8 + size + size%2
	}
	return nil, errors.New("no movi list")
}

func firstVideoChunk(data []byte, pos, end int) ([]byte, error) {
	for pos+8 <= end {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		switch {
		case id == "LIST" && body+4 <= end:
			// "rec " lists group chunks; descend into them
			listEnd := body + size
			if listEnd > end {
				listEnd = end
			}
			if chunk, err := firstVideoChunk(data, body+4, listEnd); err == nil {
				return chunk, nil
			}
		case id[2:] == "dc":
			if body+size > end {
				return nil, errors.New("video chunk is truncated")
			}
			return data[body : body+size], nil
		case id[2:] == "db":
			return nil, errors.New("uncompressed video frames are not supported")
		}
		pos = body + size + size%2
	}
	return nil, errors.New("no video frame in movi list")
}
