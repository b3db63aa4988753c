package video

import "math"

// MotionEnergy is the mean per-point Euclidean displacement between two
// consecutive landmark sets. Either side missing (first frame, detection
// gap) reports 0 since motion needs two observations.
func MotionEnergy(prev, curr []Landmark) float64 {
	if len(prev) == 0 || len(curr) == 0 {
		return 0
	}
	n := len(prev)
	if len(curr) < n {
		n = len(curr)
	}
	energy := 0.0
	for i := 0; i < n; i++ {
		dx := prev[i].X - curr[i].X
		dy := prev[i].Y - curr[i].Y
		dz := prev[i].Z - curr[i].Z
		energy += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return energy / float64(n)
}

// FlattenHands joins all per-hand landmark sets into one channel so the
// displacement can be taken across both hands at once.
func FlattenHands(hands [][]Landmark) []Landmark {
	var out []Landmark
	for _, h := range hands {
		out = append(out, h...)
	}
	return out
}
