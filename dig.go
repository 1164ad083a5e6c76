package steg

import (
	"os"

	"github.com/zedseven/steg/v2/internal/frame"
)

// DigConfig stores the configuration options for the DigFile operation.
type DigConfig struct {
	CarrierPath string  // The path on disk to a carrier produced by HideFile or Encode.
	Key         string  // The passphrase the message was bound to.
	OutPath     string  // If set, the message is also written to this path.
	Options     Options // Passed on to Decode. Engine and AudioOffset must match the ones used to hide.
}

// Decode extracts the message hidden in file and checks it against key.
// A carrier without a frame yields a *NoMessageFoundError, a frame bound to another key an
// *InvalidKeyError.
func Decode(file *File, key string, opts *Options) (string, error) {
	if file == nil {
		return "", &InvalidFormatError{"File is nil."}
	}
	o, err := opts.resolve()
	if err != nil {
		return "", err
	}
	log := o.entry("decode", file)

	_, emb, err := openCarrier(file, &o, log)
	if err != nil {
		return "", err
	}

	log.Info("Reading the frame from the carrier...")
	bits, err := emb.extract()
	if err != nil {
		log.WithError(err).Info("No end marker was found.")
		return "", translateError(file.MediaType, err)
	}
	log.WithField("payloadBits", len(bits)).Debug("End marker found.")

	payload, err := frame.FromBits(bits)
	if err != nil {
		return "", translateError(file.MediaType, err)
	}
	message, err := frame.Verify(payload, key)
	if err != nil {
		log.WithError(err).Info("The frame could not be verified.")
		return "", translateError(file.MediaType, err)
	}

	log.WithField("messageBytes", len(message)).Info("All done! c:")
	return message, nil
}

// DigFile extracts the message hidden in a carrier on disk.
func DigFile(config *DigConfig) (string, error) {
	// Input validation
	if len(config.CarrierPath) <= 0 {
		return "", &InvalidFormatError{"CarrierPath is empty."}
	}

	file, err := LoadFile(config.CarrierPath)
	if err != nil {
		return "", err
	}
	message, err := Decode(file, config.Key, &config.Options)
	if err != nil {
		return "", err
	}

	if len(config.OutPath) > 0 {
		if err = os.WriteFile(config.OutPath, []byte(message), 0o644); err != nil {
			return "", err
		}
	}
	return message, nil
}
