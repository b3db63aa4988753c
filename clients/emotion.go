package clients

import (
	"context"

	"github.com/speaklens/speaklens/video"
)

type emoResp struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// EmotionClassifier fronts the face-emotion service (POST /detect) run on
// the aligned face crop. An empty label means the model saw nothing usable;
// the caller falls through to the landmark heuristic.
type EmotionClassifier struct {
	h   *HTTP
	url string
}

func NewEmotionClassifier(h *HTTP, url string) *EmotionClassifier {
	return &EmotionClassifier{h: h, url: url}
}

var _ video.EmotionClassifier = (*EmotionClassifier)(nil)

func (e *EmotionClassifier) ClassifyEmotion(ctx context.Context, cropJPEG []byte) (string, float64, error) {
	var out emoResp
	if err := e.h.postJSON(ctx, e.url+"/detect", encodeImage(cropJPEG), &out); err != nil {
		return "", 0, err
	}
	return out.Label, out.Score, nil
}
