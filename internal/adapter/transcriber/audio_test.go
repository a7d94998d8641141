package transcriber

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"mcq-generator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeWAV builds a 16-bit mono 8 kHz PCM clip of the given length.
func makeWAV(t *testing.T, d time.Duration) []byte {
	t.Helper()
	const (
		sampleRate = 8000
		channels   = 1
		bits       = 16
	)
	byteRate := sampleRate * channels * bits / 8
	dataLen := int(d.Seconds() * float64(byteRate))

	var buf bytes.Buffer
	w := func(v any) { require.NoError(t, binary.Write(&buf, binary.LittleEndian, v)) }
	buf.WriteString("RIFF")
	w(uint32(36 + dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	w(uint32(16))
	w(uint16(1))
	w(uint16(channels))
	w(uint32(sampleRate))
	w(uint32(byteRate))
	w(uint16(channels * bits / 8))
	w(uint16(bits))
	buf.WriteString("data")
	w(uint32(dataLen))
	buf.Write(make([]byte, dataLen))
	return buf.Bytes()
}

func TestWAVDuration(t *testing.T) {
	dur, err := WAVDuration(makeWAV(t, 2*time.Second))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, dur.Seconds(), 0.01)

	_, err = WAVDuration([]byte("definitely not audio"))
	assert.Error(t, err)
}

func TestIsWAV(t *testing.T) {
	assert.True(t, IsWAV("blob", makeWAV(t, time.Second)))
	assert.True(t, IsWAV("clip.WAV", nil))
	assert.False(t, IsWAV("clip.webm", []byte{0x1a, 0x45, 0xdf, 0xa3}))
}

func TestCheckClip(t *testing.T) {
	maxDur := 15 * time.Second

	assert.NoError(t, CheckClip("a.wav", makeWAV(t, 10*time.Second), maxDur))
	assert.NoError(t, CheckClip("a.wav", makeWAV(t, 15500*time.Millisecond), maxDur), "grace period")
	assert.NoError(t, CheckClip("a.webm", []byte{0x1a, 0x45, 0xdf, 0xa3}, maxDur), "non-WAV passes through")

	err := CheckClip("a.wav", makeWAV(t, 20*time.Second), maxDur)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeInvalidInput))

	err = CheckClip("a.wav", []byte("RIFF....WAVEjunk"), maxDur)
	assert.True(t, domain.IsCode(err, domain.CodeInvalidInput))

	err = CheckClip("a.wav", nil, maxDur)
	assert.True(t, domain.IsCode(err, domain.CodeInvalidInput))
}
