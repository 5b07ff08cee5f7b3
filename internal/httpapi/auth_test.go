package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newAuthRouter() *Router {
	r := newTestRouter(&fakeSynthesizer{})
	r.cfg.AdminAPIKey = "secret-key"
	r.cfg.JWTSecret = "jwt-secret"
	r.cfg.JWTExpiry = time.Hour
	return r
}

func issueToken(t *testing.T, r *Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.handleIssueToken(rec, req)
	return rec
}

func TestHandleIssueToken(t *testing.T) {
	t.Run("valid api key", func(t *testing.T) {
		rec := issueToken(t, newAuthRouter(), `{"api_key":"secret-key"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		var resp struct {
			Token     string    `json:"token"`
			ExpiresAt time.Time `json:"expires_at"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.Token == "" {
			t.Error("token should not be empty")
		}
		if !resp.ExpiresAt.After(time.Now()) {
			t.Error("expires_at should be in the future")
		}
	})

	t.Run("wrong api key", func(t *testing.T) {
		rec := issueToken(t, newAuthRouter(), `{"api_key":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := issueToken(t, newAuthRouter(), `{`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("admin not configured", func(t *testing.T) {
		rec := issueToken(t, newTestRouter(&fakeSynthesizer{}), `{"api_key":"secret-key"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestWithAuth(t *testing.T) {
	r := newAuthRouter()
	protected := r.withAuth(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("reached"))
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		rec := httptest.NewRecorder()
		protected(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		req.Header.Set("Authorization", "not-a-bearer")
		rec := httptest.NewRecorder()
		protected(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rec := httptest.NewRecorder()
		protected(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("issued token passes", func(t *testing.T) {
		token, _, err := r.generateJWT()
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
		}
		if rec.Body.String() != "reached" {
			t.Errorf("protected handler not reached: %q", rec.Body.String())
		}
	})

	t.Run("token signed with other secret fails", func(t *testing.T) {
		other := newAuthRouter()
		other.cfg.JWTSecret = "different-secret"
		token, _, err := other.generateJWT()
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})
}

func TestHandleHistoryWithoutDatabase(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	r.handleHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp struct {
		Events []any `json:"events"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Events == nil {
		t.Error("events should be an empty list, not null")
	}
	if len(resp.Events) != 0 {
		t.Errorf("got %d events without a database, want 0", len(resp.Events))
	}
}

func TestHandleHistoryLimitValidation(t *testing.T) {
	r := newAuthRouter()

	for _, limit := range []string{"0", "-5", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/history?limit="+limit, nil)
		rec := httptest.NewRecorder()
		r.handleHistory(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%q: status = %d, want %d", limit, rec.Code, http.StatusBadRequest)
		}
	}
}
