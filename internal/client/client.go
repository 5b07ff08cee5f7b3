// Package client talks to the synthesis gateway on behalf of the CLI
// frontend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/script2sound/script2sound/internal/presets"
	"github.com/script2sound/script2sound/internal/tts"
)

// Client issues requests against a running gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Generation of a long script can take a while upstream.
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// APIError is a JSON error body returned by the gateway.
type APIError struct {
	Tag    string `json:"error"`
	Detail string `json:"detail"`
	Status int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Tag, e.Detail)
	}
	return e.Tag
}

// Invalid reports whether the gateway classified the request as
// client-correctable.
func (e *APIError) Invalid() bool {
	return e.Tag == "invalid_request"
}

// Voices fetches the voice catalog.
func (c *Client) Voices(ctx context.Context, languageCode string) ([]tts.Voice, error) {
	url := c.baseURL + "/voices"
	if languageCode != "" {
		url += "?language_code=" + languageCode
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var body struct {
		Voices []tts.Voice `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode voices: %w", err)
	}
	return body.Voices, nil
}

// Presets fetches the server-side preset catalog.
func (c *Client) Presets(ctx context.Context) ([]presets.Preset, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/presets", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var body struct {
		Presets []presets.Preset `json:"presets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode presets: %w", err)
	}
	return body.Presets, nil
}

// GenerateAudio posts a synthesis request and returns the MP3 bytes.
func (c *Client) GenerateAudio(ctx context.Context, sreq tts.Request) ([]byte, error) {
	payload, err := json.Marshal(sreq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/generate-audio", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	return io.ReadAll(resp.Body)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(apiErr); err != nil || apiErr.Tag == "" {
		apiErr.Tag = "unexpected_response"
		apiErr.Detail = resp.Status
	}
	return apiErr
}
