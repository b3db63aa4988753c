package video

import (
	"math"
	"sort"
	"strconv"
)

// Aggregate collapses the full-resolution timeline into fixed-length bins:
// numeric channels by arithmetic mean, categorical channels by mode (ties
// broken by first-encounter order). Bins with zero frames are never
// emitted; output is sorted by bin start. This is a terminal, one-shot
// reduction over a fully buffered timeline.
func Aggregate(t *Timeline, window float64) []IntervalRecord {
	recs := t.Records()
	if len(recs) == 0 {
		return nil
	}

	bins := make(map[float64][]FrameRecord)
	for _, r := range recs {
		key := math.Floor(r.Time/window) * window
		bins[key] = append(bins[key], r)
	}

	starts := make([]float64, 0, len(bins))
	for k := range bins {
		starts = append(starts, k)
	}
	sort.Float64s(starts)

	out := make([]IntervalRecord, 0, len(starts))
	for _, start := range starts {
		out = append(out, reduceBin(start, bins[start]))
	}
	return out
}

func reduceBin(start float64, recs []FrameRecord) IntervalRecord {
	n := float64(len(recs))
	rec := IntervalRecord{Interval: start}

	auSum := map[string]float64{}
	auCount := map[string]int{}
	handSum, handN := 0.0, 0
	var smoothed, raw, sync, auSrc []string
	var near []bool

	for _, r := range recs {
		rec.EmotionScore += r.EmotionScore
		rec.BodyEnergy += r.BodyEnergy
		rec.HandEnergy += r.HandEnergy
		rec.FaceEnergy += r.FaceEnergy
		rec.ShoulderTension += r.ShoulderTension
		rec.HeadTiltDeg += r.HeadTiltDeg
		for k, v := range r.AUs {
			auSum[k] += v
			auCount[k]++
		}
		if r.HandToFacePx != nil {
			handSum += *r.HandToFacePx
			handN++
		}
		smoothed = append(smoothed, r.EmotionSmoothed)
		raw = append(raw, r.EmotionRaw)
		sync = append(sync, r.SyncStatus)
		auSrc = append(auSrc, r.AUSource)
		near = append(near, r.NearFace)
	}

	rec.EmotionScore /= n
	rec.BodyEnergy /= n
	rec.HandEnergy /= n
	rec.FaceEnergy /= n
	rec.ShoulderTension /= n
	rec.HeadTiltDeg /= n

	rec.AUs = make(map[string]float64, len(auSum))
	for k, sum := range auSum {
		rec.AUs[k] = sum / float64(auCount[k])
	}
	if handN > 0 {
		mean := handSum / float64(handN)
		rec.HandToFacePx = &mean
	}

	rec.EmotionSmoothed = modeString(smoothed)
	rec.EmotionRaw = modeString(raw)
	rec.SyncStatus = modeString(sync)
	rec.AUSource = modeString(auSrc)
	rec.NearFace = modeBool(near)
	return rec
}

// modeString picks the most frequent value; ties break toward the value
// encountered first.
func modeString(values []string) string {
	counts := map[string]int{}
	first := map[string]int{}
	for i, v := range values {
		if _, seen := counts[v]; !seen {
			first[v] = i
		}
		counts[v]++
	}
	best := values[0]
	for _, v := range values {
		if counts[v] > counts[best] ||
			(counts[v] == counts[best] && first[v] < first[best]) {
			best = v
		}
	}
	return best
}

func modeBool(values []bool) bool {
	trues := 0
	for _, v := range values {
		if v {
			trues++
		}
	}
	if trues*2 == len(values) {
		return values[0] // tie: first encountered
	}
	return trues*2 > len(values)
}

// AUColumns is the sorted union of AU keys across the intervals, giving the
// CSV a stable column set.
func AUColumns(intervals []IntervalRecord) []string {
	set := map[string]struct{}{}
	for _, iv := range intervals {
		for k := range iv.AUs {
			set[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(set))
	for k := range set {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// CSVHeader and CSVRows render the interval table: interval start, numeric
// means, AU means, then categorical modes.
func CSVHeader(auCols []string) []string {
	head := []string{
		"interval", "emotion_score", "body_energy", "hand_energy", "face_energy",
		"shoulder_tension", "head_tilt_deg", "hands_to_face_px",
	}
	for _, c := range auCols {
		head = append(head, "au_"+c)
	}
	return append(head,
		"emotion_smoothed", "emotion_raw", "sync_status", "au_source", "hands_near_face")
}

func CSVRows(intervals []IntervalRecord, auCols []string) [][]string {
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	rows := make([][]string, 0, len(intervals))
	for _, iv := range intervals {
		hand := ""
		if iv.HandToFacePx != nil {
			hand = ff(*iv.HandToFacePx)
		}
		row := []string{
			ff(iv.Interval), ff(iv.EmotionScore), ff(iv.BodyEnergy), ff(iv.HandEnergy),
			ff(iv.FaceEnergy), ff(iv.ShoulderTension), ff(iv.HeadTiltDeg), hand,
		}
		for _, c := range auCols {
			if v, ok := iv.AUs[c]; ok {
				row = append(row, ff(v))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, iv.EmotionSmoothed, iv.EmotionRaw, iv.SyncStatus, iv.AUSource,
			strconv.FormatBool(iv.NearFace))
		rows = append(rows, row)
	}
	return rows
}
