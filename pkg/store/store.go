// Package store keeps a history of renders served by the API.
//
// A [Record] describes one render: its id, when it ran, what it was built
// from and how many words were placed. Artifact bytes are not stored.
//
// Two implementations are provided:
//   - [MemoryStore]: in-process, for development and tests
//   - [MongoStore]: MongoDB-backed, shared between API replicas
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record describes one render.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// Input
	TableHash string `json:"table_hash" bson:"table_hash"`
	Words     int    `json:"words" bson:"words"`

	// Layout
	Width    int    `json:"width" bson:"width"`
	Height   int    `json:"height" bson:"height"`
	Seed     uint64 `json:"seed" bson:"seed"`
	Placed   int    `json:"placed" bson:"placed"`
	Unplaced int    `json:"unplaced" bson:"unplaced"`

	// Output
	Formats    []string `json:"formats" bson:"formats"`
	CacheHit   bool     `json:"cache_hit" bson:"cache_hit"`
	DurationMS int64    `json:"duration_ms" bson:"duration_ms"`
}

// NewRecord returns a record with a fresh id and the current time.
func NewRecord() *Record {
	return &Record{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
}

// ValidID reports whether id has the shape of a record id.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store persists render records. Implementations are safe for concurrent use.
type Store interface {
	// Put inserts or replaces r.
	Put(ctx context.Context, r *Record) error
	// Get returns the record with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)
	Close(ctx context.Context) error
}
