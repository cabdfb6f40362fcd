// Package store persists rendered diagrams so the server can hand out
// stable URLs for them. Unlike the cache, stored renders are not evicted:
// the store is the system of record, the cache an accelerator in front of
// it.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no render exists under the requested hash.
var ErrNotFound = errors.New("render not found")

// Render is one persisted rendering: the graph's canonical JSON, the ASCII
// output, and the options that produced it.
type Render struct {
	Hash      string    `json:"hash" bson:"_id"`
	Graph     []byte    `json:"graph" bson:"graph"`
	Output    string    `json:"output" bson:"output"`
	Spacing   string    `json:"spacing" bson:"spacing"`
	Spaces    int       `json:"spaces" bson:"spaces"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store persists renders keyed by graph content hash.
//
// Save is an upsert: rendering is deterministic, so writing the same hash
// twice writes the same document. Implementations must be safe for
// concurrent use.
type Store interface {
	Save(ctx context.Context, r Render) error
	Get(ctx context.Context, hash string) (Render, error)
	Close(ctx context.Context) error
}
