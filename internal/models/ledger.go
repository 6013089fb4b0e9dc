package models

import "time"

// MistakeEntry is one persisted miss. Entries are deduplicated by HerbID:
// the first recorded wrong/correct pair for a herb is kept forever.
type MistakeEntry struct {
	HerbID     int64     `json:"id"`
	Name       string    `json:"name"`
	Wrong      string    `json:"wrong"`
	Correct    string    `json:"correct"`
	RecordedAt time.Time `json:"recorded_at"`
}

// SessionResult is the persisted summary of one finished quiz session.
type SessionResult struct {
	ID       int64     `json:"id"`
	TakenAt  time.Time `json:"taken_at"`
	PoolSize int       `json:"pool_size"`
	Correct  int       `json:"correct"`
	Percent  int       `json:"percent"`
	Modes    string    `json:"modes"`
	Grades   string    `json:"grades"`
}

// ResultFilter narrows a result-history listing. Zero values mean "no
// restriction"; Limit <= 0 falls back to the repository default.
type ResultFilter struct {
	Since      *time.Time
	MinPercent int
	Grade      string
	Limit      int
}
