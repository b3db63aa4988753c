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
)

type qualityResp struct {
	Label         string             `json:"label"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// QualityClassifier fronts the trained speaking-quality bundle (feature
// scaler + classifier + label encoder). The caller hands over a WAV path;
// feature extraction happens behind the service contract.
type QualityClassifier struct {
	h   *HTTP
	url string
}

func NewQualityClassifier(h *HTTP, url string) *QualityClassifier {
	return &QualityClassifier{h: h, url: url}
}

func (q *QualityClassifier) Classify(ctx context.Context, wavPath string) (string, map[string]float64, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return "", nil, err
	}
	fd, err := os.Open(wavPath)
	if err != nil {
		return "", nil, err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return "", nil, err
	}
	if err = w.Close(); err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.url+"/classify", &b)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := q.h.c.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", nil, fmt.Errorf("quality %s: %s", resp.Status, string(body))
	}

	var out qualityResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", nil, fmt.Errorf("quality decode: %w", err)
	}
	return out.Label, out.Probabilities, nil
}
