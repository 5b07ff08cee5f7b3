package tts

import (
	"context"
	"fmt"
	"strings"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

// Audio settings matching the service's output contract: 24 kHz MP3
// tuned for headphone playback.
const (
	synthSampleRateHertz = 24000
	synthEffectsProfile  = "headphone-class-device"
)

// Only the high-quality Neural2 models are surfaced, capped to keep the
// picker manageable.
const maxCatalogVoices = 15

// GoogleClient implements Synthesizer using the Google Cloud
// Text-to-Speech API. Credentials are resolved by the SDK from the
// environment (GOOGLE_APPLICATION_CREDENTIALS or ambient identity).
type GoogleClient struct {
	client  *texttospeech.Client
	timeout time.Duration
}

// GoogleConfig holds configuration for the Google client.
type GoogleConfig struct {
	// Timeout bounds each outbound catalog or synthesis call.
	Timeout time.Duration
}

// NewGoogleClient creates a new Google Cloud TTS client.
func NewGoogleClient(ctx context.Context, cfg GoogleConfig) (*GoogleClient, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create texttospeech client: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GoogleClient{client: client, timeout: timeout}, nil
}

// ListVoices fetches the Neural2 voice catalog for a language.
func (c *GoogleClient) ListVoices(ctx context.Context, languageCode string) ([]Voice, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{
		LanguageCode: languageCode,
	})
	if err != nil {
		return nil, classifyProviderError(err)
	}

	voices := make([]Voice, 0, maxCatalogVoices)
	for _, v := range resp.Voices {
		if !strings.Contains(v.Name, "Neural2") {
			continue
		}
		lang := languageCode
		if len(v.LanguageCodes) > 0 {
			lang = v.LanguageCodes[0]
		}
		voices = append(voices, Voice{
			Name:              v.Name,
			LanguageCode:      lang,
			Gender:            v.SsmlGender.String(),
			NaturalSampleRate: v.NaturalSampleRateHertz,
		})
		if len(voices) == maxCatalogVoices {
			break
		}
	}
	return voices, nil
}

// Synthesize converts one request to MP3 bytes. SSML input is handed to
// the provider as markup; the client never parses it.
func (c *GoogleClient) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	input := &texttospeechpb.SynthesisInput{}
	if req.IsSSML {
		input.InputSource = &texttospeechpb.SynthesisInput_Ssml{Ssml: req.Text}
	} else {
		input.InputSource = &texttospeechpb.SynthesisInput_Text{Text: req.Text}
	}

	resp, err := c.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: input,
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: req.LanguageCode,
			Name:         req.VoiceName,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding:    texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:     req.SpeakingRate,
			Pitch:            req.Pitch,
			SampleRateHertz:  synthSampleRateHertz,
			EffectsProfileId: []string{synthEffectsProfile},
		},
	})
	if err != nil {
		return nil, classifyProviderError(err)
	}
	return resp.AudioContent, nil
}

// Close releases the underlying gRPC connection.
func (c *GoogleClient) Close() error {
	return c.client.Close()
}
