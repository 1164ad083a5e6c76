package steg

import (
	"bytes"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// extMediaTypes covers carrier extensions that mime.TypeByExtension only knows on some systems.
var extMediaTypes = map[string]string{
	".wav":  "audio/wav",
	".wave": "audio/wav",
	".flac": "audio/flac",
	".avi":  "video/x-msvideo",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// File is a carrier file: its name, declared media type and encoded contents.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// LoadFile reads the file at path and detects its media type.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	return &File{Name: name, MediaType: DetectMediaType(name, data), Data: data}, nil
}

// DetectMediaType returns the media type of a file, going by its extension first and its contents
// second. It returns "application/octet-stream" when neither is recognised.
func DetectMediaType(name string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mt, ok := extMediaTypes[ext]; ok {
		return mt
	}
	if ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return mt
		}
	}
	if bytes.HasPrefix(data, []byte("fLaC")) {
		return "audio/flac"
	}
	return http.DetectContentType(data)
}

// Artifact is the carrier file produced by Encode.
type Artifact struct {
	MediaType string
	Ext       string
	Data      []byte
}

// FileName returns the default name of the artifact produced from the carrier named source:
// "encoded_" followed by the source's base name and the artifact's own extension.
func (a *Artifact) FileName(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return "encoded_" + base + a.Ext
}
