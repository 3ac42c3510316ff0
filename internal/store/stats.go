package store

// RunningStats accumulates count, sum, min and max for one key without
// retaining raw samples. Min and Max are meaningful only while
// Samples > 0; there are no sentinel values to leak into output.
type RunningStats struct {
	Count   uint64
	Samples uint64
	Sum     float64
	Min     float64
	Max     float64
}

func (s *RunningStats) observe(value float64) {
	if s.Samples == 0 || value < s.Min {
		s.Min = value
	}
	if s.Samples == 0 || value > s.Max {
		s.Max = value
	}
	s.Samples++
	s.Sum += value
}

// Avg returns the mean of observed values. The second return is false
// until at least one numeric value has been observed.
func (s *RunningStats) Avg() (float64, bool) {
	if s.Samples == 0 {
		return 0, false
	}
	return s.Sum / float64(s.Samples), true
}
