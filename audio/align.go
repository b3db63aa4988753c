package audio

import (
	"math"
	"strings"
)

// AlignSegments buckets transcript text onto the fixed window grid. Each
// segment lands whole in the window containing its temporal midpoint, so
// segments spanning a boundary are never split or duplicated. Segments whose
// midpoint falls past the last bucket are dropped (transcript/audio length
// drift); a midpoint inside the last bucket stays even when it overshoots
// the audio duration.
func AlignSegments(segs []Segment, duration, window float64) []string {
	n := int(math.Ceil(duration / window))
	if n < 0 {
		n = 0
	}
	texts := make([]string, n)
	for _, s := range segs {
		mid := (s.Start + s.End) / 2
		idx := int(mid / window)
		if idx < 0 || idx >= n {
			continue
		}
		t := strings.TrimSpace(s.Text)
		if t == "" {
			continue
		}
		if texts[idx] == "" {
			texts[idx] = t
		} else {
			texts[idx] += " " + t
		}
	}
	return texts
}
