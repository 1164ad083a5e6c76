package steg

import (
	"errors"
	"fmt"

	"github.com/zedseven/steg/v2/internal/algos"
	"github.com/zedseven/steg/v2/internal/carrier"
	"github.com/zedseven/steg/v2/internal/dct"
	"github.com/zedseven/steg/v2/internal/frame"
	"github.com/zedseven/steg/v2/internal/lsb"
)

const (
	VersionMax uint8 = 2
	VersionMid uint8 = 0
	VersionMin uint8 = 0
)

// Framing constants shared by every engine.
const (
	// EndMarker is the 16-bit sentinel appended to every embedded frame.
	EndMarker = frame.EndMarker
	// Delimiter separates the key digest from the message inside a frame.
	Delimiter = frame.Delimiter
)

// Engine selects the embedding algorithm.
type Engine = algos.Engine

const (
	EngineLSB = algos.EngineLSB // Least-significant bit of every usable sample.
	EngineDCT = algos.EngineDCT // Sign of coefficient [4][4] of every 8x8 block, images only.
)

// ParseEngine parses an engine name ("lsb" or "dct").
func ParseEngine(str string) (Engine, error) {
	engine := algos.StringToEngine(str)
	if !engine.IsValid() {
		return engine, &InvalidFormatError{fmt.Sprintf("Unknown engine %q.", str)}
	}
	return engine, nil
}

// Error types

// InvalidFormatError is returned for invalid options or configuration.
type InvalidFormatError struct {
	ErrorDesc string
}

func (e InvalidFormatError) Error() string {
	if len(e.ErrorDesc) > 0 {
		return e.ErrorDesc
	}
	return "The provided data is of an invalid format."
}

// UnsupportedMediaTypeError is returned when no carrier adapter matches the declared media type.
type UnsupportedMediaTypeError struct {
	MediaType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("The media type %q is not supported. Use an image/*, audio/* or video/* file.", e.MediaType)
}

// MessageTooLargeError is returned before any sample is touched when the frame does not fit.
type MessageTooLargeError struct {
	FrameBits int
	Capacity  int
}

func (e *MessageTooLargeError) Error() string {
	return fmt.Sprintf("There is not enough space available to store the message within the carrier. "+
		"The frame needs %d bits and the carrier holds at most %d.", e.FrameBits, e.Capacity)
}

// NoMessageFoundError is returned when the carrier holds no recognisable frame.
type NoMessageFoundError struct {
	AdditionalInfo string
}

func (e *NoMessageFoundError) Error() string {
	ret := "No hidden message was found in the carrier."
	if len(e.AdditionalInfo) > 0 {
		return fmt.Sprintf("%v Additional info: %v", ret, e.AdditionalInfo)
	}
	return ret
}

// InvalidKeyError is returned when a frame was found but it was bound to another key.
type InvalidKeyError struct{}

func (e *InvalidKeyError) Error() string {
	return "A hidden message was found, but the key does not match."
}

// DecodeError is returned when the carrier file itself cannot be decoded.
type DecodeError struct {
	MediaType  string
	InnerError error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("The %v carrier could not be decoded: %v", e.MediaType, e.InnerError)
}

func (e *DecodeError) Unwrap() error {
	return e.InnerError
}

// EncodeError is returned when the frame fits but the carrier cannot be made to hold it or be rebuilt.
type EncodeError struct {
	MediaType  string
	InnerError error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("The message could not be written into the %v carrier: %v", e.MediaType, e.InnerError)
}

func (e *EncodeError) Unwrap() error {
	return e.InnerError
}

// Library methods

// Version returns the library version.
func Version() string {
	return fmt.Sprintf("%02d.%02d.%02d", VersionMax, VersionMid, VersionMin)
}

// MaxMessageBytes returns the longest message, in bytes, that fits into capacity bits.
func MaxMessageBytes(capacity int) int {
	return frame.MaxMessageBytes(capacity)
}

// Shared methods

// translateError maps errors from the internal packages onto the public error types.
func translateError(mediaType string, err error) error {
	var (
		unsupported *carrier.UnsupportedError
		format      *carrier.FormatError
		malformed   *frame.MalformedError
		mismatch    *frame.KeyMismatchError
		empty       *algos.EmptyPoolError
		dctCap      *dct.CapacityError
		unembed     *dct.UnembeddableBlockError
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &unsupported):
		return &UnsupportedMediaTypeError{MediaType: unsupported.MediaType}
	case errors.As(err, &format):
		return &DecodeError{MediaType: mediaType, InnerError: format}
	case errors.Is(err, lsb.ErrNoMarker), errors.Is(err, dct.ErrNoMarker):
		return &NoMessageFoundError{AdditionalInfo: err.Error()}
	case errors.As(err, &malformed):
		return &NoMessageFoundError{AdditionalInfo: malformed.Reason}
	case errors.As(err, &mismatch):
		return &InvalidKeyError{}
	case errors.As(err, &empty):
		return &MessageTooLargeError{}
	case errors.As(err, &dctCap):
		return &MessageTooLargeError{FrameBits: dctCap.Bits, Capacity: dctCap.Blocks}
	case errors.As(err, &unembed):
		return &EncodeError{MediaType: mediaType, InnerError: unembed}
	default:
		return err
	}
}
