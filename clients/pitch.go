package clients

import (
	"context"
	"math"
)

type pitchReq struct {
	Samples    []float64 `json:"samples"`
	SampleRate int       `json:"sample_rate"`
	MinHz      float64   `json:"fmin"`
	MaxHz      float64   `json:"fmax"`
}

type pitchResp struct {
	// One entry per analysis frame; null marks an unvoiced frame.
	F0 []*float64 `json:"f0"`
}

// PitchTracker fronts the fundamental-frequency estimation service (POST
// /track). Unvoiced frames come back as JSON nulls and are handed to the
// caller as NaN, matching the tracker contract.
type PitchTracker struct {
	h   *HTTP
	url string
}

func NewPitchTracker(h *HTTP, url string) *PitchTracker { return &PitchTracker{h: h, url: url} }

func (p *PitchTracker) Track(ctx context.Context, samples []float64, sampleRate int, minHz, maxHz float64) ([]float64, error) {
	var out pitchResp
	req := pitchReq{Samples: samples, SampleRate: sampleRate, MinHz: minHz, MaxHz: maxHz}
	if err := p.h.postJSON(ctx, p.url+"/track", req, &out); err != nil {
		return nil, err
	}

	f0 := make([]float64, len(out.F0))
	for i, v := range out.F0 {
		if v == nil {
			f0[i] = math.NaN()
		} else {
			f0[i] = *v
		}
	}
	return f0, nil
}
