package lsb

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zedseven/steg/v2/internal/algos"
	"github.com/zedseven/steg/v2/internal/frame"
)

type byteSamples []byte

func (s byteSamples) Len() int { return len(s) }

func (s byteSamples) Bit(i int) uint8 { return s[i] & 1 }

func (s byteSamples) SetBit(i int, b uint8) { s[i] = s[i]&0xFE | b&1 }

func randomSamples(n int, seed int64) byteSamples {
	r := rand.New(rand.NewSource(seed))
	s := make(byteSamples, n)
	r.Read(s)
	return s
}

func TestEmbedExtract(t *testing.T) {
	samples := randomSamples(4096, 1)
	bits := frame.Encode("abc", "hello there")

	require.NoError(t, Embed(samples, bits))

	payload, err := Extract(samples)
	require.NoError(t, err)
	assert.Equal(t, bits[:len(bits)-frame.MarkerBits], payload)
}

func TestEmbedOnlyTouchesLeastSignificantBits(t *testing.T) {
	samples := randomSamples(2048, 2)
	original := append(byteSamples{}, samples...)
	bits := frame.Encode("k", "x")

	require.NoError(t, Embed(samples, bits))

	for i := range samples {
		assert.Equal(t, original[i]&0xFE, samples[i]&0xFE, "sample %d high bits", i)
		if i >= len(bits) {
			assert.Equal(t, original[i], samples[i], "sample %d past the frame", i)
		}
	}
}

func TestEmbedOutOfSamples(t *testing.T) {
	samples := make(byteSamples, 10)
	err := Embed(samples, make([]uint8, 11))
	var empty *algos.EmptyPoolError
	assert.ErrorAs(t, err, &empty)
}

func TestExtractWithoutMarker(t *testing.T) {
	samples := make(byteSamples, 1000)
	_, err := Extract(samples)
	assert.ErrorIs(t, err, ErrNoMarker)
}
