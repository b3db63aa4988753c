package video

import (
	"math"

	"github.com/speaklens/speaklens/config"
)

// Face-mesh landmark indices used by the heuristics.
const (
	lmInnerBrowL = 70
	lmInnerBrowR = 300
	lmEyeTopL    = 159
	lmEyeBotL    = 145
	lmEyeTopR    = 386
	lmEyeBotR    = 374
	lmMouthL     = 61
	lmMouthR     = 291
	lmMouthTop   = 13
	lmMouthBot   = 14
)

// meshMinLandmarks is the smallest landmark set the heuristics can index
// into (full face meshes carry 468+ points).
const meshMinLandmarks = 400

func dist2(a, b Landmark) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func dist3(a, b Landmark) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// HeuristicAUs approximates three action units from normalized face-mesh
// distances when the external AU model is unavailable or empty:
// AU01 inner-brow raise, AU12 lip-corner pull, AU26 jaw drop. Each is
// clipped into [0,1] by a fixed linear transform from the calibration.
func HeuristicAUs(lm []Landmark, cal *config.Calibration) map[string]float64 {
	if len(lm) < meshMinLandmarks {
		return nil
	}

	eyeL := dist2(lm[lmEyeTopL], lm[lmEyeBotL])
	eyeR := dist2(lm[lmEyeTopR], lm[lmEyeBotR])
	eyeAvg := (eyeL + eyeR) / 2

	browL := dist2(lm[lmInnerBrowL], lm[lmEyeTopL])
	browR := dist2(lm[lmInnerBrowR], lm[lmEyeTopR])
	au01L := clip(browL/(eyeAvg+1e-6)-1, 0, cal.BrowRaiseMax) / cal.BrowRaiseMax
	au01R := clip(browR/(eyeAvg+1e-6)-1, 0, cal.BrowRaiseMax) / cal.BrowRaiseMax

	mouthW := dist2(lm[lmMouthL], lm[lmMouthR])
	cornerLVert := math.Abs(lm[lmMouthTop].Y - lm[lmMouthL].Y)
	cornerRVert := math.Abs(lm[lmMouthTop].Y - lm[lmMouthR].Y)
	au12 := clip(mouthW*cal.LipPullScale-(cornerLVert+cornerRVert), 0, cal.LipPullMax) / cal.LipPullMax

	mouthOpen := dist2(lm[lmMouthTop], lm[lmMouthBot])
	au26 := clip((mouthOpen/(mouthW+1e-6)-cal.JawDropOffset)*cal.JawDropScale, 0, 1)

	return map[string]float64{
		"AU01": (au01L + au01R) / 2,
		"AU12": au12,
		"AU26": au26,
	}
}
