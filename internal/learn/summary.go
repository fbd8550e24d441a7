package learn

import (
	"time"

	"github.com/abhisek/leitbox/internal/store"
)

// Summary holds the data displayed on the summary screen and sent to the
// history repository.
type Summary struct {
	ID           string
	CategoryPath string
	Start        time.Time
	End          time.Time
	Total        int
	Checks       int
	Left         int
	Passed       int
	Failed       int
	Skipped      int
	Relearned    int
}

// Duration returns the session length, zero while it has not ended.
func (s Summary) Duration() time.Duration {
	if s.End.IsZero() {
		return 0
	}
	return s.End.Sub(s.Start)
}

// Accuracy returns the share of finished cards that were passed on the first
// try.
func (s Summary) Accuracy() float64 {
	done := s.Passed + s.Failed + s.Relearned
	if done == 0 {
		return 0
	}
	return float64(s.Passed) / float64(done)
}

func (s Summary) record() store.HistoryRecord {
	return store.HistoryRecord{
		SessionID:    s.ID,
		CategoryPath: s.CategoryPath,
		Start:        s.Start,
		End:          s.End,
		Passed:       s.Passed,
		Failed:       s.Failed,
		Skipped:      s.Skipped,
		Relearned:    s.Relearned,
	}
}
