package validator

import "fmt"

// Status classifies one outcome of a validation run.
type Status int

const (
	Match Status = iota
	Mismatch
	ColumnMissing
	TableMissing
	DatabaseMissing
	ValidationAborted
)

var statusNames = [...]string{
	Match:             "match",
	Mismatch:          "mismatch",
	ColumnMissing:     "column_missing",
	TableMissing:      "table_missing",
	DatabaseMissing:   "database_missing",
	ValidationAborted: "validation_aborted",
}

// Statuses lists every status in report order.
var Statuses = []Status{Match, Mismatch, ColumnMissing, TableMissing, DatabaseMissing, ValidationAborted}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(statusNames) {
		return nil, fmt.Errorf("unknown status %d", int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// OK reports whether s is Match.
func (s Status) OK() bool { return s == Match }
