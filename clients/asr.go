package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/speaklens/speaklens/audio"
)

type transSeg struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type asrResp struct {
	Segments []transSeg `json:"segments"`
	Text     string     `json:"text"`
	Language string     `json:"language"`
}

// Transcriber is the HTTP transcription service (POST /transcribe with the
// media file as multipart form data).
type Transcriber struct {
	h   *HTTP
	url string
}

func NewTranscriber(h *HTTP, url string) *Transcriber { return &Transcriber{h: h, url: url} }

func (t *Transcriber) Transcribe(ctx context.Context, path string) (*audio.Transcription, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url+"/transcribe", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := t.h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("asr %s: %s", resp.Status, string(body))
	}

	var out asrResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("asr decode: %w", err)
	}

	tr := &audio.Transcription{Text: out.Text, Language: out.Language}
	tr.Segments = make([]audio.Segment, 0, len(out.Segments))
	for _, s := range out.Segments {
		tr.Segments = append(tr.Segments, audio.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	return tr, nil
}
