package audio

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/speaklens/speaklens/config"
	"github.com/speaklens/speaklens/media"
	"github.com/speaklens/speaklens/report"
)

// Pipeline runs the audio side: transcribe, align text onto the fixed
// window grid, score each window, then the whole clip.
type Pipeline struct {
	cfg    *config.Root
	asr    Transcriber
	scorer *WindowScorer
	log    logrus.FieldLogger
}

func NewPipeline(cfg *config.Root, asr Transcriber, scorer *WindowScorer, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{cfg: cfg, asr: asr, scorer: scorer, log: log}
}

// Run decodes the input and analyzes it. Decode and transcription failures
// are fatal; anything local to one window degrades per window.
func (p *Pipeline) Run(ctx context.Context, path string) (*Report, error) {
	samples, err := media.DecodeSamples(path, p.cfg.Audio.SampleRate)
	if err != nil {
		return nil, err
	}
	return p.Analyze(ctx, path, samples)
}

// Analyze scores pre-decoded samples. Split from Run so tests can feed
// synthetic clips.
func (p *Pipeline) Analyze(ctx context.Context, path string, samples []float64) (*Report, error) {
	tr, err := p.asr.Transcribe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	sr := p.cfg.Audio.SampleRate
	window := p.cfg.Audio.WindowSec
	duration := float64(len(samples)) / float64(sr)
	texts := AlignSegments(tr.Segments, duration, window)
	p.log.WithFields(logrus.Fields{
		"duration": duration,
		"windows":  len(texts),
		"segments": len(tr.Segments),
	}).Info("audio analysis started")

	windows := make([]WindowRecord, 0, len(texts))
	totalWords, totalFillers := 0, 0
	var pitchSum, energySum float64

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := float64(i) * window
		end := start + window
		if end > duration {
			end = duration
		}
		lo, hi := int(start*float64(sr)), int(end*float64(sr))
		if hi > len(samples) {
			hi = len(samples)
		}

		rec := p.scorer.ScoreWindow(ctx, text, start, end, samples[lo:hi])
		totalWords += rec.WordCount
		totalFillers += rec.Fillers
		pitchSum += rec.PitchMean
		energySum += rec.EnergyMean
		windows = append(windows, rec)
	}

	label, probs, err := p.scorer.ClassifyClip(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("overall quality: %w", err)
	}

	metrics := Metrics{
		DurationSec:  report.Round(duration, 2),
		TotalFillers: totalFillers,
	}
	if duration > 0 {
		metrics.AverageWPM = report.Round(float64(totalWords)/duration*60, 2)
	}
	if len(windows) > 0 {
		metrics.AveragePitch = report.Round(pitchSum/float64(len(windows)), 2)
		metrics.AverageEnergy = report.Round(energySum/float64(len(windows)), 3)
	}

	p.log.WithFields(logrus.Fields{
		"quality": label,
		"words":   totalWords,
		"fillers": totalFillers,
	}).Info("audio analysis done")

	return &Report{
		Quality:    label,
		Confidence: report.ScrubMap(probs),
		Transcript: strings.TrimSpace(tr.Text),
		Metrics:    metrics,
		Windows:    windows,
	}, nil
}
