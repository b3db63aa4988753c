package clients

import (
	"context"
	"encoding/base64"

	"github.com/speaklens/speaklens/video"
)

// Landmark detectors share one wire shape: the frame travels as a base64
// JPEG, landmarks come back normalized to the image.

type imageReq struct {
	Image string `json:"image"`
}

type lmWire struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func encodeImage(jpeg []byte) imageReq {
	return imageReq{Image: base64.StdEncoding.EncodeToString(jpeg)}
}

func toLandmarks(ws []lmWire) []video.Landmark {
	if len(ws) == 0 {
		return nil
	}
	out := make([]video.Landmark, len(ws))
	for i, w := range ws {
		out[i] = video.Landmark{X: w.X, Y: w.Y, Z: w.Z}
	}
	return out
}

// PoseDetector fronts the body-landmark service (POST /pose).
type PoseDetector struct {
	h   *HTTP
	url string
}

func NewPoseDetector(h *HTTP, url string) *PoseDetector { return &PoseDetector{h: h, url: url} }

func (d *PoseDetector) DetectPose(ctx context.Context, jpeg []byte) ([]video.Landmark, error) {
	var out struct {
		Landmarks []lmWire `json:"landmarks"`
	}
	if err := d.h.postJSON(ctx, d.url+"/pose", encodeImage(jpeg), &out); err != nil {
		return nil, err
	}
	return toLandmarks(out.Landmarks), nil
}

// HandDetector fronts the hand-landmark service (POST /hands). Each entry
// of the response is one detected hand.
type HandDetector struct {
	h   *HTTP
	url string
}

func NewHandDetector(h *HTTP, url string) *HandDetector { return &HandDetector{h: h, url: url} }

func (d *HandDetector) DetectHands(ctx context.Context, jpeg []byte) ([][]video.Landmark, error) {
	var out struct {
		Hands [][]lmWire `json:"hands"`
	}
	if err := d.h.postJSON(ctx, d.url+"/hands", encodeImage(jpeg), &out); err != nil {
		return nil, err
	}
	if len(out.Hands) == 0 {
		return nil, nil
	}
	hands := make([][]video.Landmark, 0, len(out.Hands))
	for _, h := range out.Hands {
		hands = append(hands, toLandmarks(h))
	}
	return hands, nil
}

// FaceMesher fronts the dense face-landmark service (POST /mesh); input is
// the upscaled face crop, landmarks are normalized to that crop.
type FaceMesher struct {
	h   *HTTP
	url string
}

func NewFaceMesher(h *HTTP, url string) *FaceMesher { return &FaceMesher{h: h, url: url} }

func (d *FaceMesher) Mesh(ctx context.Context, cropJPEG []byte) ([]video.Landmark, error) {
	var out struct {
		Landmarks []lmWire `json:"landmarks"`
	}
	if err := d.h.postJSON(ctx, d.url+"/mesh", encodeImage(cropJPEG), &out); err != nil {
		return nil, err
	}
	return toLandmarks(out.Landmarks), nil
}

// FaceLocator fronts a face bounding-box service (POST /locate). A null box
// means no face in this frame; that is not an error.
type FaceLocator struct {
	h   *HTTP
	url string
}

func NewFaceLocator(h *HTTP, url string) *FaceLocator { return &FaceLocator{h: h, url: url} }

func (d *FaceLocator) LocateFace(ctx context.Context, jpeg []byte) (*video.Box, error) {
	var out struct {
		Box *struct {
			X1 int `json:"x1"`
			Y1 int `json:"y1"`
			X2 int `json:"x2"`
			Y2 int `json:"y2"`
		} `json:"box"`
	}
	if err := d.h.postJSON(ctx, d.url+"/locate", encodeImage(jpeg), &out); err != nil {
		return nil, err
	}
	if out.Box == nil {
		return nil, nil
	}
	return &video.Box{X1: out.Box.X1, Y1: out.Box.Y1, X2: out.Box.X2, Y2: out.Box.Y2}, nil
}
