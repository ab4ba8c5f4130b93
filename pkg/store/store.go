// Package store persists ranked frequency tables.
//
// The CLI keeps a local history in SQLite ([SQLiteStore]); server deployments
// share tables through MongoDB ([MongoStore]). [MemoryStore] serves tests and
// short-lived processes.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/wordmosaic/pkg/errors"
	"github.com/matzehuels/wordmosaic/pkg/freq"
)

// ErrNotFound is returned by Get when no record has the requested ID.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "record not found")

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record is a stored frequency table.
type Record struct {
	ID        string     `json:"id" bson:"_id"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	Source    string     `json:"source,omitempty" bson:"source,omitempty"`
	Words     freq.Table `json:"words" bson:"words"`
	Total     int        `json:"total" bson:"total"`
}

// NewRecord creates a record with a fresh ID for table.
func NewRecord(source string, table freq.Table) Record {
	return Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Source:    source,
		Words:     table,
		Total:     table.Total(),
	}
}

// Store saves and loads records.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	// List returns the newest records first.
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// ValidateID rejects IDs that are not UUIDs.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid record id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
