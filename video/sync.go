package video

import (
	"math"

	"github.com/speaklens/speaklens/config"
)

// SyncStatus classifies whether the three motion channels rise and fall
// together. All-zero energies mean no movement at all; otherwise each
// channel is normalized by the frame's own maximum and the dispersion of
// the normalized triple decides the status.
func SyncStatus(face, hand, body float64, cal *config.Calibration) string {
	max := math.Max(face, math.Max(hand, body))
	if max == 0 {
		return SyncNoMovement
	}
	norm := [3]float64{face / (max + cal.SyncEpsilon), hand / (max + cal.SyncEpsilon), body / (max + cal.SyncEpsilon)}
	mean := (norm[0] + norm[1] + norm[2]) / 3
	variance := 0.0
	for _, v := range norm {
		variance += (v - mean) * (v - mean)
	}
	if math.Sqrt(variance/3) < cal.SyncThreshold {
		return SyncInSync
	}
	return SyncOutOfSync
}
