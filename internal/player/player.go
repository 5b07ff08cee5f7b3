// Package player plays decoded MP3 audio on the default output device.
package player

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gordonklaus/portaudio"
	mp3 "github.com/hajimehoshi/go-mp3"
)

const framesPerBuffer = 1024

// Play decodes an MP3 payload and plays it through PortAudio. It blocks
// until playback finishes or ctx is cancelled.
func Play(ctx context.Context, data []byte) error {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	// The decoder outputs 16-bit stereo samples.
	buf := make([]int16, framesPerBuffer*2)
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(dec.SampleRate()), framesPerBuffer, buf)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}
	defer stream.Stop()

	raw := make([]byte, len(buf)*2)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, readErr := io.ReadFull(dec, raw)
		if n == 0 {
			if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
				return nil
			}
			return fmt.Errorf("read samples: %w", readErr)
		}

		for i := range buf {
			if i*2+1 < n {
				buf[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
			} else {
				buf[i] = 0
			}
		}
		if err := stream.Write(); err != nil {
			return fmt.Errorf("write stream: %w", err)
		}

		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read samples: %w", readErr)
		}
	}
}
