package report

import (
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScrub(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
		{1.5, 1.5},
		{0, 0},
		{-2.25, -2.25},
	}
	for _, c := range cases {
		if got := Scrub(c.in); got != c.want {
			t.Errorf("Scrub(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestRound(t *testing.T) {
	if got := Round(1.23456, 2); got != 1.23 {
		t.Errorf("Round(1.23456, 2) = %v", got)
	}
	if got := Round(1.235, 2); got != 1.24 {
		t.Errorf("Round(1.235, 2) = %v", got)
	}
	if got := Round(math.NaN(), 2); got != 0 {
		t.Errorf("Round(NaN) = %v, want 0", got)
	}
}

func TestScrubMapNilBecomesEmpty(t *testing.T) {
	out := ScrubMap(nil)
	if out == nil {
		t.Fatal("nil map must normalize to an empty map")
	}
	b, err := json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{}" {
		t.Errorf("marshaled %s, want {}", b)
	}

	out = ScrubMap(map[string]float64{"good": 0.7, "bad": math.NaN()})
	if out["good"] != 0.7 || out["bad"] != 0 {
		t.Errorf("scrubbed map = %v", out)
	}
}

func TestNewSessionDirUnique(t *testing.T) {
	root := t.TempDir()
	a, err := NewSessionDir(root)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSessionDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("two sessions share a directory: %s", a)
	}
	for _, dir := range []string{a, b} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("session dir %s not created: %v", dir, err)
		}
		if !strings.HasPrefix(filepath.Base(dir), "session_") {
			t.Errorf("unexpected session dir name %s", filepath.Base(dir))
		}
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	in := map[string]any{"label": "confident", "score": 0.82}
	if err := WriteJSON(path, in); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out["label"] != "confident" || out["score"] != 0.82 {
		t.Errorf("round trip lost data: %v", out)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	header := []string{"interval", "emotion"}
	rows := [][]string{{"0", "neutral"}, {"5", "happy"}}
	if err := WriteCSV(path, header, rows); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0][0] != "interval" || got[2][1] != "happy" {
		t.Errorf("csv content = %v", got)
	}
}
