package tts

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Synthesizer defines the interface for text-to-speech providers.
type Synthesizer interface {
	// ListVoices fetches the catalog of available voices, filtered by
	// language code when one is given.
	ListVoices(ctx context.Context, languageCode string) ([]Voice, error)

	// Synthesize converts a validated request to MP3 audio bytes.
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}

// Voice describes one entry of the provider's voice catalog.
type Voice struct {
	Name              string `json:"name"`
	LanguageCode      string `json:"language_code"`
	Gender            string `json:"gender"`
	NaturalSampleRate int32  `json:"natural_sample_rate"`
}

// Request carries the parameters for a single synthesis call.
type Request struct {
	Text         string  `json:"text"`
	VoiceName    string  `json:"voice_name"`
	LanguageCode string  `json:"language_code"`
	SpeakingRate float64 `json:"speaking_rate"`
	Pitch        float64 `json:"pitch"`
	IsSSML       bool    `json:"is_ssml"`
}

// Parameter bounds enforced before any provider call. Text length is
// measured in characters, not bytes.
const (
	MaxTextLength   = 10000
	MinSpeakingRate = 0.5
	MaxSpeakingRate = 2.0
	MinPitch        = -10.0
	MaxPitch        = 10.0
)

// Validate checks the request against the parameter bounds. It returns an
// *InvalidRequestError naming the first violated constraint, or nil.
// Requests that fail validation must never reach the provider.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &InvalidRequestError{Field: "text", Reason: "text cannot be empty"}
	}
	if n := utf8.RuneCountInString(r.Text); n > MaxTextLength {
		return &InvalidRequestError{
			Field:  "text",
			Reason: fmt.Sprintf("text too long: %d characters (max %d)", n, MaxTextLength),
		}
	}
	if r.SpeakingRate < MinSpeakingRate || r.SpeakingRate > MaxSpeakingRate {
		return &InvalidRequestError{
			Field:  "speaking_rate",
			Reason: fmt.Sprintf("speaking_rate %.2f out of range [%.1f, %.1f]", r.SpeakingRate, MinSpeakingRate, MaxSpeakingRate),
		}
	}
	if r.Pitch < MinPitch || r.Pitch > MaxPitch {
		return &InvalidRequestError{
			Field:  "pitch",
			Reason: fmt.Sprintf("pitch %.2f out of range [%.1f, %.1f]", r.Pitch, MinPitch, MaxPitch),
		}
	}
	return nil
}

// commonVoices is a snapshot of Neural2 voice names used for the warn-only
// catalog check. The provider remains the source of truth; unknown names
// are passed through untouched.
var commonVoices = map[string]bool{
	"en-US-Neural2-A": true,
	"en-US-Neural2-C": true,
	"en-US-Neural2-D": true,
	"en-US-Neural2-E": true,
	"en-US-Neural2-F": true,
	"en-US-Neural2-G": true,
	"en-US-Neural2-H": true,
	"en-US-Neural2-I": true,
	"en-US-Neural2-J": true,
}

// KnownVoice reports whether name appears in the built-in catalog snapshot.
func KnownVoice(name string) bool {
	return commonVoices[name]
}
