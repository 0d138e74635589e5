// Package bbolt implements ports.RunStore using bbolt (embedded B+ tree).
// Every run lives in its own sub-bucket of the top-level "runs" bucket, keyed
// by the big-endian run ID so that cursor order is creation order. Writes are
// transactional: a crash mid-write cannot corrupt previously committed runs.
package bbolt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/corey/gapseek/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketRuns = []byte("runs")
	keySummary = []byte("summary")
	keyMatches = []byte("matches")
)

// Store implements ports.RunStore backed by bbolt.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

var _ ports.RunStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func runKey(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

// SaveRun persists a report under the next ID of the runs bucket.
// CreatedAt is stamped if unset.
func (s *Store) SaveRun(report *ports.RunReport) (uint64, error) {
	if report == nil {
		return 0, fmt.Errorf("nil run report")
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = s.now().UTC()
	}
	matches := encodeMatches(report.Matches)

	var id uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		runs, err := tx.CreateBucketIfNotExists(bucketRuns)
		if err != nil {
			return err
		}
		if id, err = runs.NextSequence(); err != nil {
			return err
		}

		summary := report.RunSummary
		summary.ID = id
		data, err := encodeSummary(&summary)
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}

		rb, err := runs.CreateBucket(runKey(id))
		if err != nil {
			return err
		}
		if err := rb.Put(keySummary, data); err != nil {
			return err
		}
		return rb.Put(keyMatches, matches)
	})
	if err != nil {
		return 0, err
	}
	report.ID = id
	return id, nil
}

// LoadRun retrieves a stored run.
// Returns nil, nil if no run with that ID exists.
func (s *Store) LoadRun(id uint64) (*ports.RunReport, error) {
	var summaryData, matchData []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		if runs == nil {
			return nil
		}
		rb := runs.Bucket(runKey(id))
		if rb == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := rb.Get(keySummary); v != nil {
			summaryData = make([]byte, len(v))
			copy(summaryData, v)
		}
		if v := rb.Get(keyMatches); v != nil {
			matchData = make([]byte, len(v))
			copy(matchData, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if summaryData == nil {
		return nil, nil
	}

	summary, err := decodeSummary(summaryData)
	if err != nil {
		return nil, fmt.Errorf("decode run %d summary: %w", id, err)
	}
	report := &ports.RunReport{RunSummary: *summary}
	if matchData != nil {
		if report.Matches, err = decodeMatches(matchData); err != nil {
			return nil, fmt.Errorf("decode run %d matches: %w", id, err)
		}
	}
	return report, nil
}

// ListRuns returns every stored run summary in ID order.
func (s *Store) ListRuns() ([]ports.RunSummary, error) {
	var out []ports.RunSummary
	err := s.db.View(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		if runs == nil {
			return nil
		}
		return runs.ForEachBucket(func(k []byte) error {
			rb := runs.Bucket(k)
			v := rb.Get(keySummary)
			if v == nil {
				return nil
			}
			// msgpack copies strings out of v, so decoding inside the tx is safe.
			summary, err := decodeSummary(v)
			if err != nil {
				return fmt.Errorf("decode run %d summary: %w", binary.BigEndian.Uint64(k), err)
			}
			out = append(out, *summary)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteRun removes a run.
// Idempotent: deleting a nonexistent run is not an error.
func (s *Store) DeleteRun(id uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		if runs == nil {
			return nil
		}
		err := runs.DeleteBucket(runKey(id))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		}
		return err
	})
}
