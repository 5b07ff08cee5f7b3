package audio

import (
	"bytes"
	"fmt"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// DurationMS reports the play length of an MP3 payload in milliseconds.
func DurationMS(data []byte) (int64, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("decode mp3: %w", err)
	}
	if dec.SampleRate() <= 0 {
		return 0, fmt.Errorf("decode mp3: invalid sample rate")
	}
	// The decoder outputs 16-bit stereo, 4 bytes per sample.
	samples := dec.Length() / 4
	return samples * 1000 / int64(dec.SampleRate()), nil
}
