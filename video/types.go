package video

import "context"

// Emotion labels shared by the external classifier contract and the
// landmark heuristic fallback.
const (
	EmotionHappy   = "happy"
	EmotionTense   = "tense"
	EmotionExcited = "excited"
	EmotionNeutral = "neutral"
	EmotionNoFace  = "no_face"
)

// Synchrony statuses.
const (
	SyncInSync     = "in_sync"
	SyncOutOfSync  = "out_of_sync"
	SyncNoMovement = "no_movement"
)

// Action-unit source tags record which estimator produced the values.
const (
	AUSourceModel     = "model"
	AUSourceLandmarks = "landmark_heuristic"
	AUSourceNone      = "none"
)

// Landmark is one normalized detector point.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Box is a face bounding box in frame pixels.
type Box struct {
	X1, Y1, X2, Y2 int
}

func (b Box) Width() int  { return b.X2 - b.X1 }
func (b Box) Height() int { return b.Y2 - b.Y1 }

func (b Box) Center() (float64, float64) {
	return float64(b.X1+b.X2) / 2, float64(b.Y1+b.Y2) / 2
}

// BodyCues are the per-frame posture metrics. HandToFacePx is nil when the
// frame has no hands or no face box.
type BodyCues struct {
	ShoulderTension float64
	HeadTiltDeg     float64
	HandToFacePx    *float64
	NearFace        bool
}

// FrameRecord is one fully processed frame. Immutable once appended to the
// timeline.
type FrameRecord struct {
	Frame           int                `json:"frame"`
	Time            float64            `json:"time_sec"`
	EmotionSmoothed string             `json:"emotion_smoothed"`
	EmotionRaw      string             `json:"emotion_raw"`
	EmotionScore    float64            `json:"emotion_score"`
	BodyEnergy      float64            `json:"body_energy"`
	HandEnergy      float64            `json:"hand_energy"`
	FaceEnergy      float64            `json:"face_energy"`
	SyncStatus      string             `json:"sync_status"`
	AUSource        string             `json:"au_source"`
	AUs             map[string]float64 `json:"action_units"`
	ShoulderTension float64            `json:"shoulder_tension"`
	HeadTiltDeg     float64            `json:"head_tilt_deg"`
	HandToFacePx    *float64           `json:"hands_to_face_px"`
	NearFace        bool               `json:"hands_near_face"`
}

// IntervalRecord is one aggregated fixed-length bin of the timeline:
// numeric channels are means, categorical channels are modes.
type IntervalRecord struct {
	Interval        float64            `json:"interval"`
	EmotionSmoothed string             `json:"emotion_smoothed"`
	EmotionRaw      string             `json:"emotion_raw"`
	EmotionScore    float64            `json:"emotion_score"`
	BodyEnergy      float64            `json:"body_energy"`
	HandEnergy      float64            `json:"hand_energy"`
	FaceEnergy      float64            `json:"face_energy"`
	SyncStatus      string             `json:"sync_status"`
	AUSource        string             `json:"au_source"`
	AUs             map[string]float64 `json:"action_units"`
	ShoulderTension float64            `json:"shoulder_tension"`
	HeadTiltDeg     float64            `json:"head_tilt_deg"`
	HandToFacePx    *float64           `json:"hands_to_face_px"`
	NearFace        bool               `json:"hands_near_face"`
}

// Detector contracts. Every implementation is a black box owned by exactly
// one run; none are safe for concurrent use across runs. A nil detection
// result with a nil error means "nothing found in this frame".

type PoseDetector interface {
	DetectPose(ctx context.Context, jpeg []byte) ([]Landmark, error)
}

type HandDetector interface {
	DetectHands(ctx context.Context, jpeg []byte) ([][]Landmark, error)
}

type FaceLocator interface {
	LocateFace(ctx context.Context, jpeg []byte) (*Box, error)
}

type FaceMesher interface {
	Mesh(ctx context.Context, cropJPEG []byte) ([]Landmark, error)
}

type AUEstimator interface {
	EstimateAUs(ctx context.Context, cropJPEG []byte) (map[string]float64, error)
}

type EmotionClassifier interface {
	ClassifyEmotion(ctx context.Context, cropJPEG []byte) (label string, score float64, err error)
}
