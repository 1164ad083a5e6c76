package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zedseven/steg/v2"
)

func parse(t *testing.T, args ...string) (*commonFlags, *flag.FlagSet) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var c commonFlags
	c.register(fs)
	require.NoError(t, fs.Parse(args))
	return &c, fs
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: dct\nworkers: 3\ndctDelta: 40\n"), 0o644))

	c, fs := parse(t, "-config", path, "-workers", "5")
	opts, err := c.options(fs)
	require.NoError(t, err)
	assert.Equal(t, steg.EngineDCT, opts.Engine, "unset flags keep the config value")
	assert.Equal(t, 40.0, opts.DCTDelta)
	assert.Equal(t, 5, opts.Workers)
}

func TestFlagsWithoutConfig(t *testing.T) {
	c, fs := parse(t, "-engine", "dct", "-v", "none")
	opts, err := c.options(fs)
	require.NoError(t, err)
	assert.Equal(t, steg.EngineDCT, opts.Engine)
	assert.Equal(t, steg.OutputNone, opts.OutputLevel)

	c, fs = parse(t, "-engine", "wavelet")
	_, err = c.options(fs)
	assert.Error(t, err)
}

func TestHideDigCommands(t *testing.T) {
	dir := t.TempDir()
	carrierPath := filepath.Join(dir, "tone.wav")
	require.NoError(t, os.WriteFile(carrierPath, silentWAV(2000), 0o644))
	outPath := filepath.Join(dir, "out.wav")

	require.NoError(t, runHide([]string{"-carrier", carrierPath, "-key", "k", "-message", "hello", "-out", outPath, "-v", "none"}))
	_, err := os.Stat(outPath)
	require.NoError(t, err)

	messagePath := filepath.Join(dir, "message.txt")
	require.NoError(t, runDig([]string{"-carrier", outPath, "-key", "k", "-out", messagePath, "-v", "none"}))
	got, err := os.ReadFile(messagePath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	assert.NoError(t, runCapacity([]string{"-carrier", carrierPath, "-v", "none"}))
	assert.Error(t, runHide([]string{"-carrier", carrierPath, "-v", "none"}))
}

// silentWAV returns a mono 16-bit PCM WAV of n zero samples.
func silentWAV(n int) []byte {
	le32 := func(v int) []byte { return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)} }
	b := []byte("RIFF")
	b = append(b, le32(36+2*n)...)
	b = append(b, "WAVEfmt "...)
	b = append(b, le32(16)...)
	b = append(b, 1, 0, 1, 0)
	b = append(b, le32(8000)...)
	b = append(b, le32(16000)...)
	b = append(b, 2, 0, 16, 0)
	b = append(b, "data"...)
	b = append(b, le32(2*n)...)
	return append(b, make([]byte, 2*n)...)
}
