package clients

import "context"

type auResp struct {
	AUs map[string]float64 `json:"aus"`
}

// AUEstimator fronts the continuous action-unit model (POST /aus) on the
// aligned face crop. An empty map hands the frame to the landmark
// heuristic.
type AUEstimator struct {
	h   *HTTP
	url string
}

func NewAUEstimator(h *HTTP, url string) *AUEstimator { return &AUEstimator{h: h, url: url} }

func (a *AUEstimator) EstimateAUs(ctx context.Context, cropJPEG []byte) (map[string]float64, error) {
	var out auResp
	if err := a.h.postJSON(ctx, a.url+"/aus", encodeImage(cropJPEG), &out); err != nil {
		return nil, err
	}
	return out.AUs, nil
}
