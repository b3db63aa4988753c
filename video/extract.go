package video

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/speaklens/speaklens/config"
	"github.com/speaklens/speaklens/media"
)

// Extractor turns raw frames into FrameRecords. It owns the detector set
// and the frame-to-frame state (previous landmarks, emotion history), which
// binds it to one sequential run.
type Extractor struct {
	pose    PoseDetector
	hands   HandDetector
	faces   []FaceLocator // priority order, first non-trivial box wins
	mesh    FaceMesher
	aus     AUEstimator       // optional
	emotion EmotionClassifier // optional
	cal     *config.Calibration
	log     logrus.FieldLogger

	prevPose  []Landmark
	prevHands [][]Landmark
	prevFace  []Landmark
	smoother  *Smoother
}

func NewExtractor(pose PoseDetector, hands HandDetector, faces []FaceLocator, mesh FaceMesher, aus AUEstimator, emotion EmotionClassifier, cal *config.Calibration, log logrus.FieldLogger) *Extractor {
	return &Extractor{
		pose:     pose,
		hands:    hands,
		faces:    faces,
		mesh:     mesh,
		aus:      aus,
		emotion:  emotion,
		cal:      cal,
		log:      log,
		smoother: NewSmoother(cal.SmoothingDepth),
	}
}

// ProcessFrame runs every detector and derived metric for one frame. It
// never fails: any detector error defaults that channel for this frame
// only, so one bad frame cannot abort a multi-minute video.
func (e *Extractor) ProcessFrame(ctx context.Context, f *media.Frame) FrameRecord {
	poseLm := e.detectPose(ctx, f)
	handsLm := e.detectHands(ctx, f)

	img, err := DecodeJPEG(f.JPEG)
	if err != nil {
		e.log.WithError(err).WithField("frame", f.Index).Debug("frame decode failed")
		img = nil
	}
	frameW, frameH := 0, 0
	if img != nil {
		frameW, frameH = img.Bounds().Dx(), img.Bounds().Dy()
	}

	box := e.locateFace(ctx, f, frameW, frameH)

	var faceLm []Landmark
	var emotionCrop []byte
	aus := map[string]float64{}
	auSource := AUSourceNone

	if box != nil && img != nil {
		faceLm, emotionCrop, aus, auSource = e.analyzeFace(ctx, img, *box, f.Index)
	}
	if len(aus) == 0 && len(faceLm) > 0 {
		if m := HeuristicAUs(faceLm, e.cal); len(m) > 0 {
			aus = m
			auSource = AUSourceLandmarks
		}
	}

	bodyEnergy := MotionEnergy(e.prevPose, poseLm)
	handEnergy := MotionEnergy(FlattenHands(e.prevHands), FlattenHands(handsLm))
	faceEnergy := MotionEnergy(e.prevFace, faceLm)

	cues := ComputeBodyCues(poseLm, handsLm, box, frameW, frameH, e.cal)

	label, score := e.classifyEmotion(ctx, emotionCrop, faceLm, bodyEnergy, f.Index)
	smoothed := e.smoother.Push(label)

	e.prevPose = poseLm
	e.prevHands = handsLm
	e.prevFace = faceLm

	return FrameRecord{
		Frame:           f.Index,
		Time:            f.Time,
		EmotionSmoothed: smoothed,
		EmotionRaw:      label,
		EmotionScore:    score,
		BodyEnergy:      bodyEnergy,
		HandEnergy:      handEnergy,
		FaceEnergy:      faceEnergy,
		SyncStatus:      SyncStatus(faceEnergy, handEnergy, bodyEnergy, e.cal),
		AUSource:        auSource,
		AUs:             aus,
		ShoulderTension: cues.ShoulderTension,
		HeadTiltDeg:     cues.HeadTiltDeg,
		HandToFacePx:    cues.HandToFacePx,
		NearFace:        cues.NearFace,
	}
}

func (e *Extractor) detectPose(ctx context.Context, f *media.Frame) []Landmark {
	lm, err := e.pose.DetectPose(ctx, f.JPEG)
	if err != nil {
		e.log.WithError(err).WithField("frame", f.Index).Debug("pose detect failed")
		return nil
	}
	return lm
}

func (e *Extractor) detectHands(ctx context.Context, f *media.Frame) [][]Landmark {
	hands, err := e.hands.DetectHands(ctx, f.JPEG)
	if err != nil {
		e.log.WithError(err).WithField("frame", f.Index).Debug("hand detect failed")
		return nil
	}
	return hands
}

// locateFace walks the locator chain; the first box with both dimensions
// above the minimum wins. The last locator in the chain derives its box from
// landmarks, which hug the face tightly, so its box is padded out before the
// crop.
func (e *Extractor) locateFace(ctx context.Context, f *media.Frame, frameW, frameH int) *Box {
	for i, loc := range e.faces {
		if loc == nil {
			continue
		}
		box, err := loc.LocateFace(ctx, f.JPEG)
		if err != nil {
			e.log.WithError(err).WithField("frame", f.Index).Debug("face locate failed")
			continue
		}
		if box != nil && box.Width() > e.cal.MinFaceBoxPx && box.Height() > e.cal.MinFaceBoxPx {
			if i == len(e.faces)-1 {
				return padBox(*box, e.cal.FaceBoxMargin, frameW, frameH)
			}
			return box
		}
	}
	return nil
}

// padBox grows the box by margin on every side, clamped to the frame.
func padBox(b Box, margin, frameW, frameH int) *Box {
	b.X1 -= margin
	b.Y1 -= margin
	b.X2 += margin
	b.Y2 += margin
	if b.X1 < 0 {
		b.X1 = 0
	}
	if b.Y1 < 0 {
		b.Y1 = 0
	}
	if frameW > 0 && b.X2 > frameW {
		b.X2 = frameW
	}
	if frameH > 0 && b.Y2 > frameH {
		b.Y2 = frameH
	}
	return &b
}

// analyzeFace crops, upscales, meshes and aligns the face, then asks the
// external AU model if one is wired.
func (e *Extractor) analyzeFace(ctx context.Context, img image.Image, box Box, frame int) ([]Landmark, []byte, map[string]float64, string) {
	aus := map[string]float64{}
	auSource := AUSourceNone

	crop := CropFace(img, box, e.cal.FaceCropSize)
	cropJPEG, err := EncodeJPEG(crop)
	if err != nil {
		return nil, nil, aus, auSource
	}

	faceLm, err := e.mesh.Mesh(ctx, cropJPEG)
	if err != nil {
		e.log.WithError(err).WithField("frame", frame).Debug("face mesh failed")
		faceLm = nil
	}

	aligned := image.Image(crop)
	if len(faceLm) > 0 {
		aligned = AlignFace(crop, faceLm)
	}

	small := imaging.Resize(aligned, e.cal.EmotionCropPx, e.cal.EmotionCropPx, imaging.Linear)
	emotionCrop, err := EncodeJPEG(small)
	if err != nil {
		emotionCrop = nil
	}

	if e.aus != nil {
		if alignedJPEG, err := EncodeJPEG(aligned); err == nil {
			m, err := e.aus.EstimateAUs(ctx, alignedJPEG)
			if err != nil {
				e.log.WithError(err).WithField("frame", frame).Debug("au estimate failed")
			} else if len(m) > 0 {
				aus = m
				auSource = AUSourceModel
			}
		}
	}
	return faceLm, emotionCrop, aus, auSource
}

// classifyEmotion prefers the external classifier on the aligned crop and
// falls back to the landmark heuristic.
func (e *Extractor) classifyEmotion(ctx context.Context, emotionCrop []byte, faceLm []Landmark, bodyEnergy float64, frame int) (string, float64) {
	if e.emotion != nil && emotionCrop != nil {
		label, score, err := e.emotion.ClassifyEmotion(ctx, emotionCrop)
		if err != nil {
			e.log.WithError(err).WithField("frame", frame).Debug("emotion classify failed")
		} else if label != "" {
			return label, score
		}
	}
	return HeuristicEmotion(faceLm, bodyEnergy, e.cal), 0
}
