package validator

import (
	"time"
)

// ColumnResult is the outcome for one declared column.
type ColumnResult struct {
	Name     string `json:"name"`
	Expected string `json:"expected"`
	Actual   string `json:"actual,omitempty"`
	Status   Status `json:"status"`
}

// TableResult groups the column outcomes of one declared table.
// Status is Match only when every column matched.
type TableResult struct {
	Name    string         `json:"name"`
	Status  Status         `json:"status"`
	Columns []ColumnResult `json:"columns"`

	// Err is set when Status is ValidationAborted.
	Err error `json:"-"`
}

// DatabaseResult groups the table outcomes of one declared database.
type DatabaseResult struct {
	Name   string        `json:"name"`
	Status Status        `json:"status"`
	Tables []TableResult `json:"tables"`

	// Err is set when Status is ValidationAborted.
	Err error `json:"-"`
}

// Summary is the outcome of one validation run.
type Summary struct {
	RunID      string           `json:"run_id"`
	Target     string           `json:"target"`
	Principal  string           `json:"principal"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Databases  []DatabaseResult `json:"databases"`
}

// Counts tallies column outcomes by status. Aborted branches count once each.
func (s *Summary) Counts() map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, db := range s.Databases {
		if db.Status == ValidationAborted {
			counts[ValidationAborted]++
			continue
		}
		for _, t := range db.Tables {
			if t.Status == ValidationAborted {
				counts[ValidationAborted]++
				continue
			}
			for _, c := range t.Columns {
				counts[c.Status]++
			}
		}
	}
	return counts
}

// HasDiscrepancies reports whether any outcome is not a Match.
func (s *Summary) HasDiscrepancies() bool {
	for _, db := range s.Databases {
		if !db.Status.OK() {
			return true
		}
	}
	return false
}

// Duration is the wall time of the run.
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

func rollup(current, next Status) Status {
	if current == Match && next != Match {
		return Mismatch
	}
	return current
}
