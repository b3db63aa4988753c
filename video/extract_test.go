package video

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/speaklens/speaklens/config"
	"github.com/speaklens/speaklens/media"
)

type fakePoseDet struct {
	lm  []Landmark
	err error
}

func (f *fakePoseDet) DetectPose(ctx context.Context, jpeg []byte) ([]Landmark, error) {
	return f.lm, f.err
}

type fakeHandDet struct {
	hands [][]Landmark
	err   error
}

func (f *fakeHandDet) DetectHands(ctx context.Context, jpeg []byte) ([][]Landmark, error) {
	return f.hands, f.err
}

type fakeLocator struct {
	box   *Box
	err   error
	calls int
}

func (f *fakeLocator) LocateFace(ctx context.Context, jpeg []byte) (*Box, error) {
	f.calls++
	return f.box, f.err
}

type fakeMesher struct {
	lm  []Landmark
	err error
}

func (f *fakeMesher) Mesh(ctx context.Context, cropJPEG []byte) ([]Landmark, error) {
	return f.lm, f.err
}

type fakeAUModel struct {
	m   map[string]float64
	err error
}

func (f *fakeAUModel) EstimateAUs(ctx context.Context, cropJPEG []byte) (map[string]float64, error) {
	return f.m, f.err
}

type fakeEmotionModel struct {
	label string
	score float64
	err   error
}

func (f *fakeEmotionModel) ClassifyEmotion(ctx context.Context, cropJPEG []byte) (string, float64, error) {
	return f.label, f.score, f.err
}

func testFrame(t *testing.T, idx int, tm float64) *media.Frame {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.Gray{Y: uint8(x * 4)})
		}
	}
	b, err := EncodeJPEG(img)
	if err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	return &media.Frame{Index: idx, Time: tm, JPEG: b}
}

func videoTestLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func centeredPose(x float64) []Landmark {
	lm := make([]Landmark, 33)
	for i := range lm {
		lm[i] = Landmark{X: x, Y: 0.5}
	}
	return lm
}

func TestExtractorDetectorErrorsDefaultChannels(t *testing.T) {
	boom := errors.New("service down")
	e := NewExtractor(
		&fakePoseDet{err: boom},
		&fakeHandDet{err: boom},
		[]FaceLocator{&fakeLocator{err: boom}},
		&fakeMesher{},
		nil, nil,
		config.DefaultCalibration(), videoTestLog(),
	)

	rec := e.ProcessFrame(context.Background(), testFrame(t, 0, 0))

	if rec.BodyEnergy != 0 || rec.HandEnergy != 0 || rec.FaceEnergy != 0 {
		t.Errorf("failed detectors must zero the energies, got %v/%v/%v",
			rec.BodyEnergy, rec.HandEnergy, rec.FaceEnergy)
	}
	if rec.SyncStatus != SyncNoMovement {
		t.Errorf("sync = %q, want %q", rec.SyncStatus, SyncNoMovement)
	}
	if rec.AUSource != AUSourceNone || len(rec.AUs) != 0 {
		t.Errorf("no face: au source %q with %d units", rec.AUSource, len(rec.AUs))
	}
	if rec.EmotionRaw != EmotionNoFace {
		t.Errorf("emotion = %q, want %q", rec.EmotionRaw, EmotionNoFace)
	}
	if rec.HandToFacePx != nil || rec.NearFace {
		t.Error("no hands or box: distance cue must be absent")
	}
}

func TestExtractorLocatorChainSkipsTinyBoxes(t *testing.T) {
	tiny := &fakeLocator{box: &Box{X1: 0, Y1: 0, X2: 5, Y2: 5}}
	good := &fakeLocator{box: &Box{X1: 8, Y1: 8, X2: 40, Y2: 40}}
	e := NewExtractor(
		&fakePoseDet{},
		&fakeHandDet{},
		[]FaceLocator{tiny, good},
		&fakeMesher{lm: neutralMesh()},
		nil, nil,
		config.DefaultCalibration(), videoTestLog(),
	)

	rec := e.ProcessFrame(context.Background(), testFrame(t, 0, 0))

	if tiny.calls != 1 || good.calls != 1 {
		t.Fatalf("chain calls = %d/%d, want 1/1", tiny.calls, good.calls)
	}
	// With no AU model wired, a found mesh feeds the landmark heuristic.
	if rec.AUSource != AUSourceLandmarks {
		t.Errorf("au source = %q, want %q", rec.AUSource, AUSourceLandmarks)
	}
	if len(rec.AUs) == 0 {
		t.Error("landmark heuristic produced no action units")
	}
	if rec.EmotionRaw != EmotionNeutral {
		t.Errorf("emotion = %q, want %q", rec.EmotionRaw, EmotionNeutral)
	}
}

func TestExtractorPrefersExternalModels(t *testing.T) {
	e := NewExtractor(
		&fakePoseDet{},
		&fakeHandDet{},
		[]FaceLocator{&fakeLocator{box: &Box{X1: 8, Y1: 8, X2: 40, Y2: 40}}},
		&fakeMesher{lm: neutralMesh()},
		&fakeAUModel{m: map[string]float64{"AU01": 0.4, "AU06": 0.2}},
		&fakeEmotionModel{label: EmotionHappy, score: 0.91},
		config.DefaultCalibration(), videoTestLog(),
	)

	rec := e.ProcessFrame(context.Background(), testFrame(t, 0, 0))

	if rec.AUSource != AUSourceModel {
		t.Errorf("au source = %q, want %q", rec.AUSource, AUSourceModel)
	}
	if rec.AUs["AU01"] != 0.4 || rec.AUs["AU06"] != 0.2 {
		t.Errorf("model AUs not carried through: %v", rec.AUs)
	}
	if rec.EmotionRaw != EmotionHappy || rec.EmotionScore != 0.91 {
		t.Errorf("emotion = %q/%v, want %q/0.91", rec.EmotionRaw, rec.EmotionScore, EmotionHappy)
	}
}

func TestExtractorExternalFailuresFallBack(t *testing.T) {
	boom := errors.New("model offline")
	e := NewExtractor(
		&fakePoseDet{},
		&fakeHandDet{},
		[]FaceLocator{&fakeLocator{box: &Box{X1: 8, Y1: 8, X2: 40, Y2: 40}}},
		&fakeMesher{lm: neutralMesh()},
		&fakeAUModel{err: boom},
		&fakeEmotionModel{err: boom},
		config.DefaultCalibration(), videoTestLog(),
	)

	rec := e.ProcessFrame(context.Background(), testFrame(t, 0, 0))

	if rec.AUSource != AUSourceLandmarks {
		t.Errorf("au source = %q, want %q", rec.AUSource, AUSourceLandmarks)
	}
	if rec.EmotionRaw != EmotionNeutral {
		t.Errorf("emotion = %q, want heuristic %q", rec.EmotionRaw, EmotionNeutral)
	}
}

func TestLocateFacePadsFallbackBox(t *testing.T) {
	cal := config.DefaultCalibration()
	frame := testFrame(t, 0, 0)

	// A lone locator is the landmark-based fallback: its tight box grows by
	// the margin, clamped to the frame.
	fallback := &fakeLocator{box: &Box{X1: 20, Y1: 20, X2: 40, Y2: 40}}
	e := NewExtractor(&fakePoseDet{}, &fakeHandDet{}, []FaceLocator{fallback},
		&fakeMesher{}, nil, nil, cal, videoTestLog())
	box := e.locateFace(context.Background(), frame, 64, 48)
	if box == nil {
		t.Fatal("no box located")
	}
	want := Box{X1: 10, Y1: 10, X2: 50, Y2: 48}
	if *box != want {
		t.Errorf("padded box = %+v, want %+v", *box, want)
	}

	// Near the origin the padding clamps at zero.
	fallback.box = &Box{X1: 4, Y1: 4, X2: 30, Y2: 30}
	box = e.locateFace(context.Background(), frame, 64, 48)
	if box.X1 != 0 || box.Y1 != 0 {
		t.Errorf("clamped corner = (%d,%d), want (0,0)", box.X1, box.Y1)
	}

	// A primary hit passes through untouched.
	primary := &fakeLocator{box: &Box{X1: 20, Y1: 20, X2: 40, Y2: 40}}
	e = NewExtractor(&fakePoseDet{}, &fakeHandDet{}, []FaceLocator{primary, fallback},
		&fakeMesher{}, nil, nil, cal, videoTestLog())
	box = e.locateFace(context.Background(), frame, 64, 48)
	if *box != (Box{X1: 20, Y1: 20, X2: 40, Y2: 40}) {
		t.Errorf("primary box = %+v, want untouched", *box)
	}

	// Padding never rescues a box under the minimum size.
	fallback.box = &Box{X1: 0, Y1: 0, X2: 5, Y2: 5}
	e = NewExtractor(&fakePoseDet{}, &fakeHandDet{}, []FaceLocator{fallback},
		&fakeMesher{}, nil, nil, cal, videoTestLog())
	if e.locateFace(context.Background(), frame, 64, 48) != nil {
		t.Error("tiny fallback box must still be rejected")
	}
}

func TestExtractorMotionUsesPreviousFrame(t *testing.T) {
	pose := &fakePoseDet{lm: centeredPose(0.4)}
	e := NewExtractor(
		pose,
		&fakeHandDet{},
		[]FaceLocator{&fakeLocator{}},
		&fakeMesher{},
		nil, nil,
		config.DefaultCalibration(), videoTestLog(),
	)

	first := e.ProcessFrame(context.Background(), testFrame(t, 0, 0))
	if first.BodyEnergy != 0 {
		t.Fatalf("first frame body energy = %v, want 0", first.BodyEnergy)
	}

	pose.lm = centeredPose(0.5)
	second := e.ProcessFrame(context.Background(), testFrame(t, 1, 0.033))
	if math.Abs(second.BodyEnergy-0.1) > 1e-9 {
		t.Fatalf("second frame body energy = %v, want 0.1", second.BodyEnergy)
	}
}
