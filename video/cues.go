package video

import (
	"math"

	"github.com/speaklens/speaklens/config"
)

// Pose landmark indices.
const (
	poseNose      = 0
	poseShoulderL = 11
	poseShoulderR = 12

	poseMinLandmarks = 13
	handIndexTip     = 8
)

// ComputeBodyCues derives posture metrics from the current frame's
// detections: shoulder tension (narrower span reads as higher tension),
// head tilt, and the minimum index-fingertip-to-face distance in pixels.
// Absent detections leave that cue at its zero value.
func ComputeBodyCues(pose []Landmark, hands [][]Landmark, box *Box, frameW, frameH int, cal *config.Calibration) BodyCues {
	var cues BodyCues

	if len(pose) >= poseMinLandmarks {
		left, right, nose := pose[poseShoulderL], pose[poseShoulderR], pose[poseNose]
		span := dist3(left, right)
		cues.ShoulderTension = clip((cal.ShoulderSpan-span)/cal.ShoulderRange, 0, 1)

		midX := (left.X + right.X) / 2
		midY := (left.Y + right.Y) / 2
		cues.HeadTiltDeg = math.Atan2(nose.Y-midY, nose.X-midX) * 180 / math.Pi
	}

	if len(hands) > 0 && box != nil && frameW > 0 && frameH > 0 {
		cx, cy := box.Center()
		min := math.Inf(1)
		for _, hand := range hands {
			if len(hand) <= handIndexTip {
				continue
			}
			tip := hand[handIndexTip]
			dx := tip.X*float64(frameW) - cx
			dy := tip.Y*float64(frameH) - cy
			if d := math.Sqrt(dx*dx + dy*dy); d < min {
				min = d
			}
		}
		if !math.IsInf(min, 1) {
			d := min
			cues.HandToFacePx = &d
			nearThresh := math.Max(cal.NearFaceMinPx, cal.NearFaceRatio*float64(box.Width()))
			cues.NearFace = d < nearThresh
		}
	}
	return cues
}
