package httpapi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/script2sound/script2sound/internal/audio"
	"github.com/script2sound/script2sound/internal/costs"
	"github.com/script2sound/script2sound/internal/eventlog"
	"github.com/script2sound/script2sound/internal/tts"
)

// handleListVoices returns the provider's voice catalog for a language.
func (r *Router) handleListVoices(w http.ResponseWriter, req *http.Request) {
	lang := req.URL.Query().Get("language_code")
	if lang == "" {
		lang = r.cfg.DefaultLanguageCode
	}

	voices, err := r.synth.ListVoices(req.Context(), lang)
	if err != nil {
		r.logger.Printf("voices: list failed: %v", err)
		captureError(req, err, "list voices")
		r.eventLog.LogAsync(newRequestID(), eventlog.EventVoicesFailed, map[string]any{
			"language_code": lang,
			"error":         err.Error(),
		})
		writeProviderError(w, err)
		return
	}

	r.eventLog.LogAsync(newRequestID(), eventlog.EventVoicesListed, map[string]any{
		"language_code": lang,
		"count":         len(voices),
	})
	if voices == nil {
		voices = []tts.Voice{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"voices": voices})
}

// handleGenerateAudio validates a synthesis request, calls the provider
// and returns the MP3 bytes. Requests violating the parameter bounds are
// rejected before any provider contact.
func (r *Router) handleGenerateAudio(w http.ResponseWriter, req *http.Request) {
	var sreq tts.Request
	if err := json.NewDecoder(req.Body).Decode(&sreq); err != nil {
		writeError(w, http.StatusBadRequest, errTagInvalidRequest, "invalid request body")
		return
	}
	r.applyDefaults(&sreq)

	if err := sreq.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, errTagInvalidRequest, err.Error())
		return
	}
	if !tts.KnownVoice(sreq.VoiceName) {
		r.logger.Printf("speech: voice %q not in known catalog, passing through", sreq.VoiceName)
	}
	if !sreq.IsSSML {
		sreq.Text = tts.CleanText(sreq.Text)
	}

	id := newRequestID()
	r.eventLog.LogAsync(id, eventlog.EventSynthesisRequested, map[string]any{
		"characters": utf8.RuneCountInString(sreq.Text),
		"voice_name": sreq.VoiceName,
		"ssml":       sreq.IsSSML,
	})

	clip, err := r.synth.Synthesize(req.Context(), sreq)
	if err != nil {
		r.logger.Printf("speech: synthesis failed: %v", err)
		captureError(req, err, "generate audio")
		r.eventLog.LogAsync(id, eventlog.EventSynthesisFailed, map[string]any{"error": err.Error()})
		writeProviderError(w, err)
		return
	}

	r.eventLog.LogAsync(id, eventlog.EventSynthesisCompleted, map[string]any{"bytes": len(clip)})

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(clip)))
	w.Header().Set("Content-Disposition", `attachment; filename=generated_audio.mp3`)
	if ms, err := audio.DurationMS(clip); err == nil {
		w.Header().Set("X-Audio-Duration-Ms", strconv.FormatInt(ms, 10))
	}
	_, _ = w.Write(clip)
}

// handleValidateText pre-checks a script without synthesizing it.
func (r *Router) handleValidateText(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errTagInvalidRequest, "invalid request body")
		return
	}

	check := tts.Request{Text: body.Text, SpeakingRate: 1.0}
	if err := check.Validate(); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"valid": false, "error": err.Error()})
		return
	}

	// Rough estimate: ~2 seconds of processing per 1000 characters.
	chars := utf8.RuneCountInString(body.Text)
	estimated := float64(chars) / 1000 * 2
	cost := costs.SynthesisCostCents(r.cfg.DefaultVoice, chars)
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":                  true,
		"character_count":        chars,
		"estimated_time_seconds": math.Round(estimated*10) / 10,
		"estimated_cost_cents":   math.Round(cost*100) / 100,
		"chunks_needed":          chars/r.cfg.StreamChunkChars + 1,
	})
}

// handleListPresets returns the server-side preset catalog.
func (r *Router) handleListPresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"presets": r.presets})
}

// applyDefaults fills fields the client omitted.
func (r *Router) applyDefaults(sreq *tts.Request) {
	if sreq.VoiceName == "" {
		sreq.VoiceName = r.cfg.DefaultVoice
	}
	if sreq.LanguageCode == "" {
		sreq.LanguageCode = r.cfg.DefaultLanguageCode
	}
	if sreq.SpeakingRate == 0 {
		sreq.SpeakingRate = r.cfg.DefaultSpeakingRate
	}
}

// writeProviderError maps the tts error taxonomy onto HTTP statuses:
// rejections surface the upstream detail, unavailability gets a generic
// retry-suggesting message.
func writeProviderError(w http.ResponseWriter, err error) {
	var perr *tts.ProviderError
	if errors.As(err, &perr) && perr.Rejected {
		writeError(w, http.StatusUnprocessableEntity, errTagProviderRejected, perr.Message)
		return
	}
	writeError(w, http.StatusBadGateway, errTagProviderUnavailable, "speech provider unavailable, please try again")
}
