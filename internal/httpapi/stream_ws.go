package httpapi

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/script2sound/script2sound/internal/eventlog"
	"github.com/script2sound/script2sound/internal/tts"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamEvent is a text frame sent alongside the binary audio frames.
type streamEvent struct {
	Event  string `json:"event"`
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
	Chunks int    `json:"chunks,omitempty"`
}

// handleStreamWS synthesizes a long script chunk by chunk over a
// websocket. The client sends one request frame; the server answers with
// binary MP3 frames per sentence chunk and a final "done" text frame.
func (r *Router) handleStreamWS(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Printf("stream: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var sreq tts.Request
	if err := conn.ReadJSON(&sreq); err != nil {
		_ = conn.WriteJSON(streamEvent{Event: "error", Error: errTagInvalidRequest, Detail: "invalid request frame"})
		return
	}
	r.applyDefaults(&sreq)

	if err := sreq.Validate(); err != nil {
		_ = conn.WriteJSON(streamEvent{Event: "error", Error: errTagInvalidRequest, Detail: err.Error()})
		return
	}

	// SSML has no safe sentence boundaries; it goes out as one chunk.
	chunks := []string{sreq.Text}
	if !sreq.IsSSML {
		chunks = tts.SplitChunks(tts.CleanText(sreq.Text), r.cfg.StreamChunkChars)
	}

	id := newRequestID()
	r.eventLog.LogAsync(id, eventlog.EventStreamStarted, map[string]any{
		"characters": utf8.RuneCountInString(sreq.Text),
		"chunks":     len(chunks),
		"voice_name": sreq.VoiceName,
	})

	for i, chunk := range chunks {
		creq := sreq
		creq.Text = chunk

		clip, err := r.synth.Synthesize(req.Context(), creq)
		if err != nil {
			r.logger.Printf("stream: chunk %d/%d failed: %v", i+1, len(chunks), err)
			captureError(req, err, "stream synthesis")
			r.eventLog.LogAsync(id, eventlog.EventStreamFailed, map[string]any{
				"chunk": i + 1,
				"error": err.Error(),
			})
			_ = conn.WriteJSON(streamErrorEvent(err))
			return
		}

		if err := conn.WriteMessage(websocket.BinaryMessage, clip); err != nil {
			r.logger.Printf("stream: write chunk %d/%d: %v", i+1, len(chunks), err)
			return
		}
	}

	r.eventLog.LogAsync(id, eventlog.EventStreamCompleted, map[string]any{"chunks": len(chunks)})
	_ = conn.WriteJSON(streamEvent{Event: "done", Chunks: len(chunks)})
}

func streamErrorEvent(err error) streamEvent {
	var perr *tts.ProviderError
	if errors.As(err, &perr) && perr.Rejected {
		return streamEvent{Event: "error", Error: errTagProviderRejected, Detail: perr.Message}
	}
	return streamEvent{Event: "error", Error: errTagProviderUnavailable, Detail: "speech provider unavailable, please try again"}
}
