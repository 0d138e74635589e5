// Package ports defines the interfaces (contracts) that adapters must implement.
// The matching core in internal/domain never depends on them; the app and
// command layers wire concrete adapters in behind these boundaries.
package ports

import "time"

// RunStore persists search run reports to durable storage.
// Each saved run gets a new monotonically increasing ID. Concurrent reads are
// safe; writes are serialized by the adapter.
//
// Crash safety: SaveRun must be transactional. A crash mid-write must not
// corrupt previously committed runs.
type RunStore interface {
	// SaveRun persists report under a fresh ID and returns that ID.
	// report.ID is ignored on input and set on success.
	SaveRun(report *RunReport) (uint64, error)

	// LoadRun retrieves a full report including its matches.
	// Returns nil, nil if no run with that ID exists.
	LoadRun(id uint64) (*RunReport, error)

	// ListRuns returns the summaries of all stored runs, oldest first.
	ListRuns() ([]RunSummary, error)

	// DeleteRun removes a run.
	// Idempotent: deleting a nonexistent run is not an error.
	DeleteRun(id uint64) error

	// Close releases the underlying database.
	Close() error
}

// RunSummary describes a run without its matches.
type RunSummary struct {
	ID           uint64    `json:"id" msgpack:"id"`
	CreatedAt    time.Time `json:"created_at" msgpack:"created_at"`
	FastaPath    string    `json:"fasta" msgpack:"fasta"`
	PatternsPath string    `json:"patterns_path" msgpack:"patterns_path"`
	MinSeed      int       `json:"min_seed" msgpack:"min_seed"`
	Dedup        bool      `json:"dedup" msgpack:"dedup"`
	Patterns     []string  `json:"patterns,omitempty" msgpack:"patterns"`
	Stats        RunStats  `json:"stats" msgpack:"stats"`
}

// RunReport is a stored run: its summary plus every reported match.
type RunReport struct {
	RunSummary
	Matches []MatchRecord `json:"matches" msgpack:"-"`
}

// RunStats mirrors the counters of a matcher run.
type RunStats struct {
	TextLength int           `json:"text_length" msgpack:"text_length"`
	Patterns   int           `json:"patterns" msgpack:"patterns"`
	Seeds      int           `json:"seeds" msgpack:"seeds"`
	Unseedable int           `json:"unseedable" msgpack:"unseedable"`
	Rejected   int           `json:"rejected" msgpack:"rejected"`
	Nodes      int           `json:"nodes" msgpack:"nodes"`
	BuildTime  time.Duration `json:"build_ns" msgpack:"build_ns"`
	ScanTime   time.Duration `json:"scan_ns" msgpack:"scan_ns"`
	Matches    int           `json:"matches" msgpack:"matches"`
}

// MatchRecord is one reported occurrence, half-open [Start, End).
type MatchRecord struct {
	PatternID uint32 `json:"pattern_id"`
	Start     uint32 `json:"start"`
	End       uint32 `json:"end"`
}
