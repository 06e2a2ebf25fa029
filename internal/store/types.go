package store

import "time"

// Run is one journaled arrangement.
type Run struct {
	ID          string    `json:"id"`  // UUIDv7
	Seq         int64     `json:"seq"` // assigned by WriteRun
	Source      string    `json:"source"`
	RecordCount int       `json:"record_count"`
	Phase       string    `json:"phase"`
	Attempts    int       `json:"attempts"`
	Adjacent    int       `json:"adjacent"`
	Minimum     int       `json:"minimum"`
	Seed        string    `json:"seed,omitempty"` // decimal seed, "" when unseeded
	CreatedAt   time.Time `json:"created_at"`     // display only; order by Seq
	Entries     []Entry   `json:"entries,omitempty"`
}

// Entry is one position of a journaled order.
type Entry struct {
	Position    int    `json:"position"` // 0-based; the record's id is Position+1
	Fingerprint string `json:"fingerprint"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Body        string `json:"-"` // record JSON as written to the collection
}
