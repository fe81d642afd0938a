package model

// Timestamps holds the reference instants of one run, in unix seconds.
type Timestamps struct {
	OneDay  int64 `json:"one_day"`
	TwoDay  int64 `json:"two_day"`
	OneWeek int64 `json:"one_week"`
}

// Slice returns the instants in one-day, two-day, one-week order.
func (t Timestamps) Slice() []int64 {
	return []int64{t.OneDay, t.TwoDay, t.OneWeek}
}

// BlockRef is the block resolved for a timestamp window.
// Found is false when the block index had no block inside the window.
type BlockRef struct {
	Timestamp int64  `json:"timestamp"`
	Number    uint64 `json:"number"`
	Found     bool   `json:"found"`
}
