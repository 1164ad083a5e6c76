package dct

// Plane is a single 8-bit channel laid out inside a larger buffer.
// The sample at (x, y) lives at Pix[Offset + y*Stride + x*Step], so an interleaved
// image channel can be addressed in place.
type Plane struct {
	Width, Height int
	Pix           []uint8
	Offset        int
	Stride        int
	Step          int
}

// NewPlane returns a tightly packed plane of the given size.
func NewPlane(w, h int) *Plane {
	return &Plane{Width: w, Height: h, Pix: make([]uint8, w*h), Stride: w, Step: 1}
}

// At returns the sample at (x, y).
func (p *Plane) At(x, y int) uint8 {
	return p.Pix[p.Offset+y*p.Stride+x*p.Step]
}

// Set writes the sample at (x, y).
func (p *Plane) Set(x, y int, v uint8) {
	p.Pix[p.Offset+y*p.Stride+x*p.Step] = v
}

// BlocksAcross returns the number of whole blocks in one block row.
func (p *Plane) BlocksAcross() int {
	return p.Width / BlockSize
}

// Blocks returns the number of whole 8x8 blocks. Partial blocks on the right and bottom edges are never used.
func (p *Plane) Blocks() int {
	return (p.Width / BlockSize) * (p.Height / BlockSize)
}

// origin returns the top-left sample of block k, counting row-major.
func (p *Plane) origin(k int) (x, y int) {
	across := p.BlocksAcross()
	return (k % across) * BlockSize, (k / across) * BlockSize
}

func (p *Plane) load(k int) (b Block) {
	x0, y0 := p.origin(k)
	for y := 0; y < BlockSize; y++ {
		for x := 0; x < BlockSize; x++ {
			b[y][x] = float64(p.At(x0+x, y0+y))
		}
	}
	return
}

func (p *Plane) store(k int, b *Block) {
	x0, y0 := p.origin(k)
	for y := 0; y < BlockSize; y++ {
		for x := 0; x < BlockSize; x++ {
			p.Set(x0+x, y0+y, uint8(b[y][x]))
		}
	}
}
