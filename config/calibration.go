package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Calibration holds the empirically tuned heuristic constants. They have no
// documented derivation, so they live in one recalibratable place instead of
// being scattered through the extraction logic.
type Calibration struct {
	// Cross-modal synchrony
	SyncThreshold float64 `yaml:"sync_threshold"` // dispersion below this is in sync
	SyncEpsilon   float64 `yaml:"sync_epsilon"`

	// Body cues
	ShoulderSpan  float64 `yaml:"shoulder_span"`   // comfortable normalized span
	ShoulderRange float64 `yaml:"shoulder_range"`  // span deficit mapping to full tension
	NearFaceRatio float64 `yaml:"near_face_ratio"` // fraction of face width
	NearFaceMinPx float64 `yaml:"near_face_min_px"`

	// Emotion smoothing and heuristics
	SmoothingDepth  int     `yaml:"smoothing_depth"`
	SmileMouthRatio float64 `yaml:"smile_mouth_ratio"`
	SmileMouthWidth float64 `yaml:"smile_mouth_width"`
	TenseBrowDist   float64 `yaml:"tense_brow_dist"`
	TenseEyeOpen    float64 `yaml:"tense_eye_open"`
	HighBodyEnergy  float64 `yaml:"high_body_energy"`

	// Face localization and crops
	MinFaceBoxPx  int `yaml:"min_face_box_px"`
	FaceBoxMargin int `yaml:"face_box_margin"`
	FaceCropSize  int `yaml:"face_crop_size"`
	EmotionCropPx int `yaml:"emotion_crop_px"`

	// Action-unit heuristic clips
	BrowRaiseMax  float64 `yaml:"brow_raise_max"`
	LipPullScale  float64 `yaml:"lip_pull_scale"`
	LipPullMax    float64 `yaml:"lip_pull_max"`
	JawDropOffset float64 `yaml:"jaw_drop_offset"`
	JawDropScale  float64 `yaml:"jaw_drop_scale"`

	// Pitch tracking vocal range (Hz)
	PitchMinHz float64 `yaml:"pitch_min_hz"`
	PitchMaxHz float64 `yaml:"pitch_max_hz"`

	// Whole-token filler vocabulary (lowercase). Multi-word entries never
	// match after whitespace tokenization; kept for parity with the trained
	// vocabulary anyway.
	Fillers []string `yaml:"fillers"`
}

func DefaultCalibration() *Calibration {
	return &Calibration{
		SyncThreshold: 0.25,
		SyncEpsilon:   1e-9,

		ShoulderSpan:  0.35,
		ShoulderRange: 0.25,
		NearFaceRatio: 0.6,
		NearFaceMinPx: 30,

		SmoothingDepth:  7,
		SmileMouthRatio: 0.35,
		SmileMouthWidth: 0.18,
		TenseBrowDist:   0.03,
		TenseEyeOpen:    0.02,
		HighBodyEnergy:  0.5,

		MinFaceBoxPx:  8,
		FaceBoxMargin: 10,
		FaceCropSize:  256,
		EmotionCropPx: 224,

		BrowRaiseMax:  2.0,
		LipPullScale:  2.0,
		LipPullMax:    1.5,
		JawDropOffset: 0.05,
		JawDropScale:  3.0,

		PitchMinHz: 65.41,  // C2
		PitchMaxHz: 2093.0, // C7

		Fillers: []string{"um", "uh", "like", "basically", "you know", "so", "actually", "right"},
	}
}

// LoadCalibration overlays a yaml file onto the defaults. An empty path
// returns the defaults unchanged.
func LoadCalibration(path string) (*Calibration, error) {
	cal := DefaultCalibration()
	if path == "" {
		return cal, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("calibration: %w", err)
	}
	if err := yaml.Unmarshal(b, cal); err != nil {
		return nil, fmt.Errorf("calibration decode: %w", err)
	}
	return cal, nil
}
