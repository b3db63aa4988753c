package audio

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/speaklens/speaklens/config"
	"github.com/speaklens/speaklens/media"
	"github.com/speaklens/speaklens/report"
)

// minWindowDur floors the WPM denominator so a truncated final window cannot
// blow the rate up.
const minWindowDur = 0.1

// WindowScorer computes the prosodic features and quality label for one
// fixed window. The same scorer handles the overall whole-clip pass.
type WindowScorer struct {
	pitch      PitchTracker
	quality    QualityClassifier
	cal        *config.Calibration
	fillers    map[string]struct{}
	sampleRate int
	scratchDir string
	log        logrus.FieldLogger
}

func NewWindowScorer(pitch PitchTracker, quality QualityClassifier, cal *config.Calibration, sampleRate int, scratchDir string, log logrus.FieldLogger) *WindowScorer {
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	return &WindowScorer{
		pitch:      pitch,
		quality:    quality,
		cal:        cal,
		fillers:    FillerSet(cal.Fillers),
		sampleRate: sampleRate,
		scratchDir: scratchDir,
		log:        log,
	}
}

// ScoreWindow scores one window. Collaborator failures degrade that channel
// to its neutral default; a bad window never aborts the run.
func (s *WindowScorer) ScoreWindow(ctx context.Context, text string, start, end float64, slice []float64) WindowRecord {
	text = strings.TrimSpace(text)
	words := len(strings.Fields(text))
	dur := end - start
	if dur < minWindowDur {
		dur = minWindowDur
	}
	wpm := (float64(words) / dur) * 60

	pitchMean, pitchStd := 0.0, 0.0
	f0, err := s.pitch.Track(ctx, slice, s.sampleRate, s.cal.PitchMinHz, s.cal.PitchMaxHz)
	if err != nil {
		s.log.WithError(err).WithField("start", start).Debug("pitch tracker failed, window defaults to 0")
	} else {
		pitchMean, pitchStd = PitchStats(f0)
	}

	energyMean, energyStd := EnergyStats(RMSFrames(slice))

	label, probs := s.classifySlice(ctx, slice)

	return WindowRecord{
		Start:      report.Round(start, 2),
		End:        report.Round(end, 2),
		Text:       text,
		WordCount:  words,
		WPM:        report.Round(wpm, 2),
		Fillers:    CountFillers(text, s.fillers),
		PitchMean:  report.Round(pitchMean, 2),
		PitchStd:   report.Round(pitchStd, 2),
		EnergyMean: report.Round(energyMean, 3),
		EnergyStd:  report.Round(energyStd, 3),
		Quality:    label,
		Confidence: report.ScrubMap(probs),
	}
}

// classifySlice writes the slice to a scratch WAV, classifies it and removes
// the file on every path. Failures degrade to the "unknown" label.
func (s *WindowScorer) classifySlice(ctx context.Context, slice []float64) (string, map[string]float64) {
	scratch := filepath.Join(s.scratchDir, "win_"+uuid.NewString()+".wav")
	if err := media.WriteWAV(scratch, slice, s.sampleRate); err != nil {
		s.log.WithError(err).Warn("scratch wav write failed")
		return "unknown", map[string]float64{}
	}
	defer os.Remove(scratch)

	label, probs, err := s.quality.Classify(ctx, scratch)
	if err != nil {
		s.log.WithError(err).Debug("window quality classify failed")
		return "unknown", map[string]float64{}
	}
	return label, probs
}

// ClassifyClip runs the quality bundle over the whole clip for the overall
// label. Unlike the per-window path this is once-per-run, so failure
// propagates.
func (s *WindowScorer) ClassifyClip(ctx context.Context, path string) (string, map[string]float64, error) {
	return s.quality.Classify(ctx, path)
}
