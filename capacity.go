package steg

// Capacity returns the number of bits file can carry with the configured engine: the number of
// eligible samples for LSB, or the number of full 8x8 blocks for DCT. The frame overhead is not
// subtracted; see MaxMessageBytes.
func Capacity(file *File, opts *Options) (int, error) {
	if file == nil {
		return 0, &InvalidFormatError{"File is nil."}
	}
	o, err := opts.resolve()
	if err != nil {
		return 0, err
	}
	log := o.entry("capacity", file)

	_, emb, err := openCarrier(file, &o, log)
	if err != nil {
		return 0, err
	}
	capacity := emb.capacity()
	log.WithField("capacity", capacity).Info("Capacity computed.")
	return capacity, nil
}

// checkCapacity fails when a frame of frameBits bits does not fit into capacity bits.
func checkCapacity(frameBits, capacity int) error {
	if frameBits > capacity {
		return &MessageTooLargeError{FrameBits: frameBits, Capacity: capacity}
	}
	return nil
}
