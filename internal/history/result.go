// Package history persists quiz results and derives aggregate statistics.
package history

import "time"

// Result is the immutable record of one finished quiz session. The JSON
// layout matches the browser store's quizHistory entries.
type Result struct {
	ID           string   `json:"id,omitempty"`
	Score        int      `json:"score"`
	Total        int      `json:"total"`
	Topic        string   `json:"topic"`
	MissedTopics []string `json:"missedTopics"`
	Timestamp    int64    `json:"timestamp"` // ms since epoch
}

// Time returns the creation time of the result.
func (r Result) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}
