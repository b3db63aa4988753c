package video

// Timeline is the append-only full-resolution event log: one record per
// processed frame, insertion order = temporal order. It grows during the
// frame loop, is finalized at end-of-video and consumed once by Aggregate.
type Timeline struct {
	recs []FrameRecord
}

func NewTimeline() *Timeline { return &Timeline{} }

func (t *Timeline) Append(r FrameRecord) { t.recs = append(t.recs, r) }

func (t *Timeline) Len() int { return len(t.recs) }

func (t *Timeline) Records() []FrameRecord { return t.recs }
