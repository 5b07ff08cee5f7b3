package httpapi

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/script2sound/script2sound/internal/eventlog"
	"github.com/script2sound/script2sound/internal/presets"
	"github.com/script2sound/script2sound/internal/tts"
)

type RouterConfig struct {
	// CORS allow-list; "*" allows any origin.
	AllowedOrigins []string

	// Request defaults applied when the client omits a field.
	DefaultVoice        string
	DefaultLanguageCode string
	DefaultSpeakingRate float64

	// Sentence-chunk size for the websocket streaming endpoint.
	StreamChunkChars int

	// Admin access (api key exchanged for a JWT). Empty disables the
	// history surface.
	AdminAPIKey string
	JWTSecret   string
	JWTExpiry   time.Duration
}

type Router struct {
	cfg      RouterConfig
	logger   *log.Logger
	synth    tts.Synthesizer
	presets  []presets.Preset
	eventLog *eventlog.Logger
	mux      *http.ServeMux
}

func NewRouter(cfg RouterConfig, logger *log.Logger, synth tts.Synthesizer, presetList []presets.Preset, eventLog *eventlog.Logger) http.Handler {
	r := &Router{
		cfg:      cfg,
		logger:   logger,
		synth:    synth,
		presets:  presetList,
		eventLog: eventLog,
		mux:      http.NewServeMux(),
	}

	r.routes()
	return withSentryRecovery(withCORS(cfg.AllowedOrigins, r.mux))
}

func (r *Router) routes() {
	// Health check (liveness only, never probes the provider)
	r.mux.HandleFunc("GET /healthz", r.handleHealthz)

	// Synthesis surface
	r.mux.HandleFunc("GET /voices", r.handleListVoices)
	r.mux.HandleFunc("POST /generate-audio", r.handleGenerateAudio)
	r.mux.HandleFunc("POST /validate-text", r.handleValidateText)
	r.mux.HandleFunc("GET /presets", r.handleListPresets)
	r.mux.HandleFunc("GET /stream", r.handleStreamWS)

	// Admin (api key -> JWT, then history)
	r.mux.HandleFunc("POST /auth/token", r.handleIssueToken)
	r.mux.HandleFunc("GET /api/history", r.withAuth(r.handleHistory))

	// Embedded demo page
	r.mux.HandleFunc("GET /", r.handleIndex)
}

func (r *Router) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error tags surfaced to clients.
const (
	errTagInvalidRequest      = "invalid_request"
	errTagProviderRejected    = "provider_rejected"
	errTagProviderUnavailable = "provider_unavailable"
)

func writeError(w http.ResponseWriter, status int, tag, detail string) {
	writeJSON(w, status, map[string]string{"error": tag, "detail": detail})
}

func withSentryRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetRequest(req)
				hub.RecoverWithContext(req.Context(), err)
				hub.Flush(2 * time.Second)
				writeError(w, http.StatusInternalServerError, "internal", "internal server error")
			}
		}()
		next.ServeHTTP(w, req)
	})
}

func withCORS(origins []string, next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	allowAny := false
	for _, o := range origins {
		if o == "*" {
			allowAny = true
		}
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		origin := req.Header.Get("Origin")
		if allowAny {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, req)
	})
}

// captureError sends an error to Sentry with request context
func captureError(req *http.Request, err error, msg string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(req)
		scope.SetExtra("message", msg)
		sentry.CaptureException(err)
	})
}

// newRequestID generates a short id correlating a request's event-log
// entries.
func newRequestID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b[:])
}
