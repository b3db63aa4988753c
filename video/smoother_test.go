package video

import "testing"

func TestSmootherDampsFlicker(t *testing.T) {
	s := NewSmoother(7)
	for i := 0; i < 5; i++ {
		s.Push(EmotionNeutral)
	}
	// A single-frame misclassification must not flip the output.
	if got := s.Push(EmotionHappy); got != EmotionNeutral {
		t.Fatalf("got %q after one-frame flicker, want %q", got, EmotionNeutral)
	}
}

func TestSmootherTieBreaksMostRecent(t *testing.T) {
	s := NewSmoother(4)
	s.Push("a")
	s.Push("a")
	s.Push("b")
	if got := s.Push("b"); got != "b" {
		t.Fatalf("2-2 tie: got %q, want most recent %q", got, "b")
	}
}

func TestSmootherBoundedHistory(t *testing.T) {
	s := NewSmoother(3)
	s.Push("old")
	s.Push("old")
	s.Push("new")
	s.Push("new")
	// Both "old" frames have scrolled past capacity except one.
	if got := s.Push("new"); got != "new" {
		t.Fatalf("got %q, want %q once old labels aged out", got, "new")
	}
}

func TestSmootherFirstFrame(t *testing.T) {
	s := NewSmoother(7)
	if got := s.Push(EmotionTense); got != EmotionTense {
		t.Fatalf("first frame smoothed to %q", got)
	}
}
