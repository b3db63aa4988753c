package audio

import "math"

const (
	rmsFrameLen = 2048
	rmsHopLen   = 512
)

// PitchStats reduces a pitch-tracker contour to mean and standard deviation
// of the voiced frames. Unvoiced frames are NaN-coded and discarded; a fully
// unvoiced contour reports 0/0.
func PitchStats(f0 []float64) (mean, std float64) {
	voiced := f0[:0:0]
	for _, v := range f0 {
		if !math.IsNaN(v) {
			voiced = append(voiced, v)
		}
	}
	if len(voiced) == 0 {
		return 0, 0
	}
	return meanStd(voiced)
}

// RMSFrames computes frame-wise root-mean-square energy over the slice.
func RMSFrames(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	var out []float64
	for start := 0; start < len(samples); start += rmsHopLen {
		end := start + rmsFrameLen
		if end > len(samples) {
			end = len(samples)
		}
		sum := 0.0
		for _, s := range samples[start:end] {
			sum += s * s
		}
		out = append(out, math.Sqrt(sum/float64(end-start)))
		if end == len(samples) {
			break
		}
	}
	return out
}

// EnergyStats normalizes the RMS frames by their own peak (left unnormalized
// when the peak is exactly zero) and reports mean and standard deviation.
func EnergyStats(rms []float64) (mean, std float64) {
	if len(rms) == 0 {
		return 0, 0
	}
	peak := 0.0
	for _, v := range rms {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	norm := rms
	if peak != 0 {
		norm = make([]float64, len(rms))
		for i, v := range rms {
			norm[i] = v / peak
		}
	}
	return meanStd(norm)
}

// meanStd is the population mean / standard deviation.
func meanStd(xs []float64) (mean, std float64) {
	for _, v := range xs {
		mean += v
	}
	mean /= float64(len(xs))
	for _, v := range xs {
		std += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(std / float64(len(xs)))
}
