package clients

import (
	"context"
	"math"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/speaklens/speaklens/config"
)

func TestNewHTTPTimeout(t *testing.T) {
	if got := NewHTTP(config.DurSeconds(5)).c.Timeout; got != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", got)
	}
	if got := NewHTTP(0).c.Timeout; got != 60*time.Second {
		t.Errorf("default timeout = %v, want 60s", got)
	}
}

func TestTranscriberUploadsMultipart(t *testing.T) {
	clip := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(clip, []byte("RIFFxxxxWAVE"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			t.Errorf("path = %s", r.URL.Path)
		}
		mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mt != "multipart/form-data" {
			t.Errorf("content type = %q (%v)", mt, err)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "clip.wav" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"hello there","language":"en","segments":[{"start":0,"end":1.5,"text":"hello there"}]}`))
	}))
	defer srv.Close()

	tr, err := NewTranscriber(NewHTTP(0), srv.URL).Transcribe(context.Background(), clip)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Text != "hello there" || tr.Language != "en" {
		t.Errorf("transcription = %+v", tr)
	}
	if len(tr.Segments) != 1 || tr.Segments[0].End != 1.5 {
		t.Errorf("segments = %+v", tr.Segments)
	}
}

func TestTranscriberSurfacesServerError(t *testing.T) {
	clip := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(clip, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewTranscriber(NewHTTP(0), srv.URL).Transcribe(context.Background(), clip)
	if err == nil {
		t.Fatal("expected error from 503 response")
	}
	if !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("error should carry the response body, got %v", err)
	}
}

func TestPitchTrackerNullsBecomeNaN(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/track" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"f0":[120.5,null,130.0]}`))
	}))
	defer srv.Close()

	f0, err := NewPitchTracker(NewHTTP(0), srv.URL).Track(context.Background(), []float64{0, 0.1}, 16000, 65.41, 2093)
	if err != nil {
		t.Fatal(err)
	}
	if len(f0) != 3 {
		t.Fatalf("len = %d", len(f0))
	}
	if f0[0] != 120.5 || f0[2] != 130 {
		t.Errorf("voiced frames = %v", f0)
	}
	if !math.IsNaN(f0[1]) {
		t.Errorf("unvoiced frame = %v, want NaN", f0[1])
	}
}

func TestPostJSONNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	var out struct{}
	err := NewHTTP(0).postJSON(context.Background(), srv.URL, map[string]int{"x": 1}, &out)
	if err == nil {
		t.Fatal("expected error from 400 response")
	}
	if !strings.Contains(err.Error(), "bad payload") {
		t.Errorf("error should carry the response body, got %v", err)
	}
}
