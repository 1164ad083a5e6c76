package steg

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/zedseven/steg/v2/internal/algos"
	"github.com/zedseven/steg/v2/internal/carrier"
	"github.com/zedseven/steg/v2/internal/dct"
	"github.com/zedseven/steg/v2/internal/lsb"
)

// embedder is an engine bound to one opened carrier.
type embedder interface {
	capacity() int
	embed(bits []uint8) error
	extract() ([]uint8, error)
}

type lsbEngine struct {
	samples lsb.Samples
}

func (e *lsbEngine) capacity() int {
	return e.samples.Len()
}

func (e *lsbEngine) embed(bits []uint8) error {
	return lsb.Embed(e.samples, bits)
}

func (e *lsbEngine) extract() ([]uint8, error) {
	return lsb.Extract(e.samples)
}

type dctEngine struct {
	plane  *dct.Plane
	opts   dct.Options
	budget int
}

func (e *dctEngine) capacity() int {
	return e.plane.Blocks()
}

func (e *dctEngine) embed(bits []uint8) error {
	return dct.Embed(e.plane, bits, e.opts)
}

func (e *dctEngine) extract() ([]uint8, error) {
	return dct.Extract(e.plane, e.budget)
}

func newEmbedder(c carrier.Carrier, o *Options) (embedder, error) {
	switch o.Engine {
	case EngineLSB:
		return &lsbEngine{samples: c.Samples()}, nil
	case EngineDCT:
		plane, err := c.Plane()
		if err != nil {
			if errors.Is(err, carrier.ErrNoPlane) {
				return nil, &InvalidFormatError{"The DCT engine only works on image and video carriers."}
			}
			return nil, err
		}
		return &dctEngine{
			plane:  plane,
			opts:   dct.Options{Delta: o.DCTDelta, Workers: o.Workers},
			budget: o.DCTBitBudget,
		}, nil
	default:
		return nil, &algos.UnknownEngineError{Engine: o.Engine}
	}
}

// openCarrier decodes file and binds the configured engine to it.
func openCarrier(file *File, o *Options, log *logrus.Entry) (carrier.Carrier, embedder, error) {
	log.Info("Loading the carrier...")
	c, err := carrier.Open(file.MediaType, file.Data, carrier.Config{AudioOffset: o.AudioOffset})
	if err != nil {
		log.WithError(err).Info("Unable to load the carrier!")
		return nil, nil, translateError(file.MediaType, err)
	}
	log.WithFields(c.Fields()).Debug("Carrier info.")

	emb, err := newEmbedder(c, o)
	if err != nil {
		return nil, nil, translateError(file.MediaType, err)
	}
	return c, emb, nil
}
