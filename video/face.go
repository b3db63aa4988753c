package video

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	"github.com/disintegration/imaging"
)

// Eye-region landmark groups whose centroids define the inter-eye line.
var (
	leftEyeIdx  = [2]int{33, 133}
	rightEyeIdx = [2]int{362, 263}
)

func DecodeJPEG(b []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(b))
}

func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CropFace extracts the face box and upscales it to the canonical square
// used for meshing and emotion classification.
func CropFace(frame image.Image, box Box, size int) *image.NRGBA {
	crop := imaging.Crop(frame, image.Rect(box.X1, box.Y1, box.X2, box.Y2))
	return imaging.Resize(crop, size, size, imaging.Linear)
}

// AlignFace rotates the crop so the inter-eye line is horizontal. The
// landmarks are normalized to the crop. Anything short of a full mesh
// falls back to the unaligned crop; this never fails.
func AlignFace(crop image.Image, lm []Landmark) image.Image {
	if len(lm) < meshMinLandmarks {
		return crop
	}
	w := float64(crop.Bounds().Dx())
	h := float64(crop.Bounds().Dy())

	centroid := func(idx [2]int) (float64, float64) {
		x := (lm[idx[0]].X + lm[idx[1]].X) / 2 * w
		y := (lm[idx[0]].Y + lm[idx[1]].Y) / 2 * h
		return x, y
	}
	lx, ly := centroid(leftEyeIdx)
	rx, ry := centroid(rightEyeIdx)

	angle := math.Atan2(ry-ly, rx-lx) * 180 / math.Pi
	rotated := imaging.Rotate(crop, angle, color.Black)
	// Rotation expands the canvas; keep the original crop geometry.
	return imaging.CropCenter(rotated, crop.Bounds().Dx(), crop.Bounds().Dy())
}
