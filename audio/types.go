package audio

import "context"

// Segment is one transcript segment as returned by the transcriber.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Transcription is the full output of one transcriber run.
type Transcription struct {
	Text     string
	Segments []Segment
	Language string
}

// WindowRecord is one scored fixed window of the clip.
type WindowRecord struct {
	Start      float64            `json:"start"`
	End        float64            `json:"end"`
	Text       string             `json:"text"`
	WordCount  int                `json:"word_count"`
	WPM        float64            `json:"wpm"`
	Fillers    int                `json:"fillers"`
	PitchMean  float64            `json:"pitch_mean"`
	PitchStd   float64            `json:"pitch_std"`
	EnergyMean float64            `json:"energy_mean"`
	EnergyStd  float64            `json:"energy_std"`
	Quality    string             `json:"speaking_quality"`
	Confidence map[string]float64 `json:"quality_confidence"`
}

// Metrics are the whole-clip aggregates.
type Metrics struct {
	DurationSec   float64 `json:"duration_sec"`
	AverageWPM    float64 `json:"average_wpm"`
	TotalFillers  int     `json:"total_fillers"`
	AveragePitch  float64 `json:"average_pitch"`
	AverageEnergy float64 `json:"average_energy"`
}

// Report is the audio-side analysis output. Immutable once built.
type Report struct {
	Quality    string             `json:"overall_speaking_quality"`
	Confidence map[string]float64 `json:"overall_confidence_scores"`
	Transcript string             `json:"overall_transcript"`
	Metrics    Metrics            `json:"overall_metrics"`
	Windows    []WindowRecord     `json:"segments"`
}

// Transcriber converts a media file into timestamped segments.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (*Transcription, error)
}

// PitchTracker estimates per-frame fundamental frequency over a sample
// slice, bounded to a vocal range. Unvoiced frames come back as NaN.
type PitchTracker interface {
	Track(ctx context.Context, samples []float64, sampleRate int, minHz, maxHz float64) ([]float64, error)
}

// QualityClassifier is the trained scaler + classifier + encoder bundle. It
// takes a WAV path and returns one label plus per-class probabilities.
type QualityClassifier interface {
	Classify(ctx context.Context, wavPath string) (string, map[string]float64, error)
}
