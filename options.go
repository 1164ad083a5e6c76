package steg

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zedseven/steg/v2/internal/carrier"
	"github.com/zedseven/steg/v2/internal/dct"
)

const (
	// DefaultAudioOffset is the amplitude step used when Options.AudioOffset is zero.
	DefaultAudioOffset = carrier.DefaultAudioOffset
	// DefaultDCTDelta is the coefficient push used when Options.DCTDelta is zero.
	DefaultDCTDelta = dct.DefaultDelta
)

// OutputLevel is the amount of output to provide.
type OutputLevel int

const (
	OutputNone  OutputLevel = iota // No output at all.
	OutputSteps                    // The major steps of an operation.
	OutputInfo                     // Steps plus carrier and frame details.
	OutputDebug                    // Everything, including per-engine tracing.
)

// String returns the name of the output level.
func (l OutputLevel) String() string {
	switch l {
	case OutputNone:
		return "none"
	case OutputSteps:
		return "steps"
	case OutputInfo:
		return "info"
	case OutputDebug:
		return "debug"
	default:
		return "<unknown>"
	}
}

// StringToOutputLevel parses an output level name.
func StringToOutputLevel(str string) (OutputLevel, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "", "none", "quiet":
		return OutputNone, nil
	case "steps":
		return OutputSteps, nil
	case "info":
		return OutputInfo, nil
	case "debug":
		return OutputDebug, nil
	default:
		return OutputNone, &InvalidFormatError{fmt.Sprintf("Unknown output level %q.", str)}
	}
}

func (l OutputLevel) logrusLevel() logrus.Level {
	switch l {
	case OutputSteps:
		return logrus.InfoLevel
	case OutputInfo:
		return logrus.DebugLevel
	case OutputDebug:
		return logrus.TraceLevel
	default:
		return logrus.PanicLevel
	}
}

// NewLogger returns a stderr logger that prints what level asks for.
func NewLogger(level OutputLevel) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(level.logrusLevel())
	if level == OutputNone {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}
	return log
}

// Options stores the configuration options shared by Encode, Decode and Capacity.
// The zero value is ready to use.
type Options struct {
	// Engine is the embedding engine. Zero means EngineLSB.
	Engine Engine
	// AudioOffset is the odd amplitude step used to flip an audio sample's parity. Zero means 1.
	AudioOffset int
	// DCTDelta is the coefficient push of the DCT engine, on a 0-255 scale. Zero means 20.
	DCTDelta float64
	// DCTBitBudget stops DCT extraction after this many bits. Zero means the carrier's capacity.
	DCTBitBudget int
	// Workers bounds the DCT engine's concurrency. Zero means one per CPU.
	Workers int
	// OutputLevel is used to build a logger when Logger is nil.
	OutputLevel OutputLevel
	// Logger receives progress output. If nil, one is created from OutputLevel.
	Logger *logrus.Logger
}

// resolve validates the options and fills in defaults, without touching the receiver.
func (o *Options) resolve() (Options, error) {
	var r Options
	if o != nil {
		r = *o
	}

	if r.Engine == 0 {
		r.Engine = EngineLSB
	}
	if !r.Engine.IsValid() {
		return r, &InvalidFormatError{"Engine is invalid."}
	}
	if r.AudioOffset == 0 {
		r.AudioOffset = DefaultAudioOffset
	}
	if r.AudioOffset < 0 || r.AudioOffset%2 == 0 {
		return r, &InvalidFormatError{fmt.Sprintf("AudioOffset must be a positive odd number: Provided %d.", r.AudioOffset)}
	}
	if r.DCTDelta == 0 {
		r.DCTDelta = DefaultDCTDelta
	}
	if r.DCTDelta < 0 || r.DCTDelta > 255 {
		return r, &InvalidFormatError{fmt.Sprintf("DCTDelta is outside the allowed range of 0-255: Provided %g.", r.DCTDelta)}
	}
	if r.DCTBitBudget < 0 {
		return r, &InvalidFormatError{"DCTBitBudget must be non-negative."}
	}
	if r.Workers < 0 {
		return r, &InvalidFormatError{"Workers must be non-negative."}
	}
	if r.Workers == 0 {
		r.Workers = runtime.NumCPU()
	}
	if r.Logger == nil {
		r.Logger = NewLogger(r.OutputLevel)
	}
	return r, nil
}

// entry starts the log entry of one operation.
func (o *Options) entry(action string, file *File) *logrus.Entry {
	return o.Logger.WithFields(logrus.Fields{
		"op":     uuid.New().String(),
		"action": action,
		"file":   file.Name,
		"media":  file.MediaType,
		"engine": o.Engine.String(),
	})
}
