// Package clients holds the HTTP implementations of every external ML
// collaborator. Each client binds one service URL and satisfies one of the
// collaborator interfaces owned by the audio/video packages.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HTTP struct{ c *http.Client }

// NewHTTP builds the shared client. A non-positive timeout falls back to one
// minute, generous enough for whole-clip transcription.
func NewHTTP(timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTP{c: &http.Client{Timeout: timeout}}
}

// postJSON marshals the payload, POSTs it and decodes a 200 response into
// out. Non-200 responses surface the body for debugging.
func (h *HTTP) postJSON(ctx context.Context, url string, payload, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %s", url, resp.Status, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s decode: %w", url, err)
	}
	return nil
}
