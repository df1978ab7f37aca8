package session

// Stats counts answers committed during one session. It is never persisted.
type Stats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Total     int `json:"total"`
}

// Record counts one committed answer.
func (s *Stats) Record(correct bool) {
	s.Total++
	if correct {
		s.Correct++
	} else {
		s.Incorrect++
	}
}

// Accuracy is the percentage of correct answers, or 0 before any answer.
func (s Stats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

func (s *Stats) Reset() {
	*s = Stats{}
}
