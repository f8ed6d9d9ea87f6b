package snapshot

import (
	"fmt"
	"regexp"
	"time"

	"github.com/kailas-cloud/assetq/internal/domain/record"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxRecords is the maximum number of records in one snapshot.
const MaxRecords = 1_000_000

// Snapshot is a whole raw collection as fetched at one instant (immutable value object).
// Snapshots are replaced atomically and never patched.
type Snapshot struct {
	collection string
	revision   string
	sequence   int64
	fetchedAt  time.Time
	records    []record.Record
}

// ValidateName checks a collection name: ^[a-zA-Z0-9_-]+$, 1-64 chars.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("collection name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("collection name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// New validates and creates an unsaved Snapshot. Nil records are dropped.
func New(collection string, records []record.Record, fetchedAt time.Time) (Snapshot, error) {
	if err := ValidateName(collection); err != nil {
		return Snapshot{}, err
	}
	if len(records) > MaxRecords {
		return Snapshot{}, fmt.Errorf("too many records (max %d)", MaxRecords)
	}
	kept := make([]record.Record, 0, len(records))
	for _, r := range records {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return Snapshot{collection: collection, fetchedAt: fetchedAt.UTC(), records: kept}, nil
}

// Reconstruct restores a Snapshot from storage without validation.
func Reconstruct(collection, revision string, sequence int64, fetchedAt time.Time, records []record.Record) Snapshot {
	return Snapshot{
		collection: collection,
		revision:   revision,
		sequence:   sequence,
		fetchedAt:  fetchedAt,
		records:    records,
	}
}

// WithRevision returns a copy stamped with a storage revision.
func (s Snapshot) WithRevision(revision string, sequence int64) Snapshot {
	s.revision = revision
	s.sequence = sequence
	return s
}

// Collection returns the collection name.
func (s *Snapshot) Collection() string { return s.collection }

// Revision returns the unique id assigned when the snapshot was stored.
func (s *Snapshot) Revision() string { return s.revision }

// Sequence returns the per-collection push counter.
func (s *Snapshot) Sequence() int64 { return s.sequence }

// FetchedAt returns when the records were fetched from the source.
func (s *Snapshot) FetchedAt() time.Time { return s.fetchedAt }

// Records returns the raw records. Callers must not modify them.
func (s *Snapshot) Records() []record.Record { return s.records }

// Len returns the number of records.
func (s *Snapshot) Len() int { return len(s.records) }
