package video

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/speaklens/speaklens/config"
	"github.com/speaklens/speaklens/media"
)

// FrameSource yields frames in temporal order and returns io.EOF when the
// stream is drained.
type FrameSource interface {
	Next() (*media.Frame, error)
}

// Pipeline drives the strictly sequential frame loop. One frame is fully
// processed before the next is read: each frame's motion energy needs the
// previous frame's landmark state, and the detectors are mutable objects
// owned by this single run.
type Pipeline struct {
	cfg *config.Root
	ex  *Extractor
	log logrus.FieldLogger
}

func NewPipeline(cfg *config.Root, ex *Extractor, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{cfg: cfg, ex: ex, log: log}
}

// Run consumes the source to exhaustion and returns the finalized timeline.
// Cancellation is checked once per frame; progress, when non-nil, is called
// after each processed frame.
func (p *Pipeline) Run(ctx context.Context, src FrameSource, progress func()) (*Timeline, error) {
	tl := NewTimeline()
	for {
		if err := ctx.Err(); err != nil {
			return tl, err
		}
		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return tl, err
		}
		tl.Append(p.ex.ProcessFrame(ctx, frame))
		if progress != nil {
			progress()
		}
	}
	p.log.WithField("frames", tl.Len()).Info("video analysis done")
	return tl, nil
}
