package algos

import (
	"fmt"
	"strings"
)

// Engine definitions

// Engine defines a supported embedding engine.
type Engine int

// IsValid simply determines whether a given engine is valid.
func (engine Engine) IsValid() bool {
	return engine > EngineUnknown && engine <= maxEngineVal
}

// String returns the name of the engine, or "<unknown>" if unknown.
func (engine Engine) String() string {
	switch engine {
	case EngineLSB:
		return "lsb"
	case EngineDCT:
		return "dct"
	default:
		return "<unknown>"
	}
}

const (
	EngineUnknown Engine = iota     // An unknown engine type.
	EngineLSB     Engine = iota     // Writes one payload bit into the least-significant bit of each sample.
	EngineDCT     Engine = iota     // Writes one payload bit into a mid-frequency coefficient of each 8x8 block.
	maxEngineVal  Engine = iota - 1 // The maximum engine value, used for validity checking.
)

// Error types

// UnknownEngineError is thrown when an unknown engine type is provided.
type UnknownEngineError struct {
	Engine Engine
}

func (e UnknownEngineError) Error() string {
	return fmt.Sprintf("The specified engine (%d) does not exist.", e.Engine)
}

// EmptyPoolError is thrown when an addressor is called but its pool of available addresses to hand out is empty.
type EmptyPoolError struct{}

func (e EmptyPoolError) Error() string {
	return "The pool of bit addresses is empty."
}

// Addressor closures

// SequentialAddressor hands out addresses sequentially, from 0 to slots - 1.
// Encoder and decoder must walk the same order, it is the only addressing scheme they share.
func SequentialAddressor(slots int64) func() (int64, error) {
	pos := int64(-1)
	return func() (int64, error) {
		pos++
		if pos >= slots {
			return -1, &EmptyPoolError{}
		}
		return pos, nil
	}
}

// StringToEngine simply parses a string into an engine type, or EngineUnknown if the string is not recognized.
func StringToEngine(str string) Engine {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "lsb", "spatial":
		return EngineLSB
	case "dct", "frequency":
		return EngineDCT
	default:
		return EngineUnknown
	}
}
