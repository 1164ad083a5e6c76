package steg

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/zedseven/steg/v2/internal/frame"
)

// HideConfig stores the configuration options for the HideFile operation.
type HideConfig struct {
	// CarrierPath is the path on disk to a supported image, audio or video file.
	CarrierPath string
	// Message is the text to hide. Ignored if MessagePath is set.
	Message string
	// MessagePath is the path on disk to a UTF-8 text file holding the message.
	MessagePath string
	// Key is the passphrase the message is bound to.
	Key string
	// OutPath is the path on disk to write the output file. If empty, it is set to
	// "encoded_<name><ext>" next to the carrier.
	OutPath string
	// Options are passed on to Encode.
	Options Options
}

// Encode hides message, bound to key, in the carrier file and returns the rebuilt carrier.
// The frame is checked against the carrier's capacity before any sample is modified.
func Encode(file *File, message, key string, opts *Options) (*Artifact, error) {
	if file == nil {
		return nil, &InvalidFormatError{"File is nil."}
	}
	if !utf8.ValidString(message) {
		return nil, &InvalidFormatError{"Message is not valid UTF-8."}
	}
	o, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	log := o.entry("encode", file)
	log.Debugf("Steg v%v.", Version())

	c, emb, err := openCarrier(file, &o, log)
	if err != nil {
		return nil, err
	}

	bits := frame.Encode(key, message)
	capacity := emb.capacity()
	log.WithFields(logrus.Fields{
		"messageBytes": len(message),
		"frameBits":    len(bits),
		"capacity":     capacity,
	}).Debug("Frame built.")
	if err = checkCapacity(len(bits), capacity); err != nil {
		log.WithError(err).Info("The message does not fit into the carrier.")
		return nil, err
	}

	log.Info("Writing the frame into the carrier...")
	if err = emb.embed(bits); err != nil {
		return nil, translateError(file.MediaType, err)
	}

	log.Info("Rebuilding the carrier...")
	out, err := c.Rebuild()
	if err != nil {
		log.WithError(err).Info("An error occurred while rebuilding the carrier.")
		return nil, &EncodeError{MediaType: file.MediaType, InnerError: err}
	}

	log.WithField("bytes", len(out.Data)).Info("All done! c:")
	return &Artifact{MediaType: out.MediaType, Ext: out.Ext, Data: out.Data}, nil
}

// HideFile hides a message in a carrier on disk and writes the result to config.OutPath.
func HideFile(config *HideConfig) error {
	// Input validation
	if len(config.CarrierPath) <= 0 {
		return &InvalidFormatError{"CarrierPath is empty."}
	}
	message := config.Message
	if len(config.MessagePath) > 0 {
		b, err := os.ReadFile(config.MessagePath)
		if err != nil {
			return err
		}
		message = string(b)
	}

	file, err := LoadFile(config.CarrierPath)
	if err != nil {
		return err
	}
	artifact, err := Encode(file, message, config.Key, &config.Options)
	if err != nil {
		return err
	}

	if len(config.OutPath) <= 0 {
		config.OutPath = filepath.Join(filepath.Dir(config.CarrierPath), artifact.FileName(config.CarrierPath))
	}
	return os.WriteFile(config.OutPath, artifact.Data, 0o644)
}
