package video

// Smoother keeps a fixed-depth FIFO of raw emotion labels and emits the
// majority label, damping single-frame misclassification flicker. Ties
// break toward the label seen most recently, so the output is
// deterministic for any input order.
type Smoother struct {
	depth  int
	labels []string
}

func NewSmoother(depth int) *Smoother {
	if depth < 1 {
		depth = 1
	}
	return &Smoother{depth: depth}
}

// Push records the current frame's raw label and returns the smoothed one.
func (s *Smoother) Push(label string) string {
	s.labels = append(s.labels, label)
	if len(s.labels) > s.depth {
		s.labels = s.labels[1:]
	}

	counts := make(map[string]int, len(s.labels))
	lastSeen := make(map[string]int, len(s.labels))
	for i, l := range s.labels {
		counts[l]++
		lastSeen[l] = i
	}

	best := s.labels[0]
	for _, l := range s.labels {
		if counts[l] > counts[best] ||
			(counts[l] == counts[best] && lastSeen[l] > lastSeen[best]) {
			best = l
		}
	}
	return best
}
