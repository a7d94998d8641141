package transcriber

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"mcq-generator/internal/domain"

	"github.com/go-audio/wav"
)

// durationGrace absorbs the encoder overhead of a clip stopped exactly at the limit.
const durationGrace = time.Second

// IsWAV reports whether data looks like a RIFF/WAVE file.
func IsWAV(filename string, data []byte) bool {
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE" {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".wav" || ext == ".wave"
}

// WAVDuration decodes the header of a WAV clip and returns its length.
func WAVDuration(data []byte) (time.Duration, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return 0, fmt.Errorf("invalid WAV file")
	}
	dur, err := d.Duration()
	if err != nil {
		return 0, fmt.Errorf("read WAV duration: %w", err)
	}
	return dur, nil
}

// CheckClip rejects empty uploads, and WAV uploads that are malformed or
// longer than maxDuration. Other containers are measured by the transcriber
// once decoded.
func CheckClip(filename string, data []byte, maxDuration time.Duration) error {
	if len(data) == 0 {
		return domain.NewInvalidInputError("Please record or upload an audio clip.")
	}
	if !IsWAV(filename, data) {
		return nil
	}
	dur, err := WAVDuration(data)
	if err != nil {
		return domain.NewInvalidInputError("The uploaded audio is not a valid WAV file").WithContext("reason", err.Error())
	}
	return CheckDuration(dur, maxDuration)
}

// CheckDuration rejects clips longer than maxDuration. A zero maxDuration
// disables the check.
func CheckDuration(dur, maxDuration time.Duration) error {
	if maxDuration > 0 && dur > maxDuration+durationGrace {
		return domain.NewInvalidInputError(fmt.Sprintf("Audio clips may be at most %s long", maxDuration)).
			WithContext("duration", dur.String())
	}
	return nil
}
