package video

import "github.com/speaklens/speaklens/config"

// HeuristicEmotion is the rule-based fallback emotion classifier using
// landmark ratios plus the current body motion energy. Rules fire in a
// fixed order: smile, tension, high energy, neutral.
func HeuristicEmotion(lm []Landmark, bodyEnergy float64, cal *config.Calibration) string {
	if len(lm) < meshMinLandmarks {
		return EmotionNoFace
	}

	mouthW := dist3(lm[lmMouthL], lm[lmMouthR])
	mouthOpen := dist3(lm[lmMouthTop], lm[lmMouthBot])
	eyeOpen := (dist3(lm[lmEyeTopL], lm[lmEyeBotL]) + dist3(lm[lmEyeTopR], lm[lmEyeBotR])) / 2
	browDist := (dist3(lm[lmInnerBrowL], lm[lmEyeTopL]) + dist3(lm[lmInnerBrowR], lm[lmEyeTopR])) / 2

	mouthRatio := 0.0
	if mouthW > 0 {
		mouthRatio = mouthOpen / mouthW
	}

	switch {
	case mouthRatio > cal.SmileMouthRatio && mouthW > cal.SmileMouthWidth:
		return EmotionHappy
	case browDist < cal.TenseBrowDist || eyeOpen < cal.TenseEyeOpen:
		return EmotionTense
	case bodyEnergy > cal.HighBodyEnergy:
		return EmotionExcited
	default:
		return EmotionNeutral
	}
}
