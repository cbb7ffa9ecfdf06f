// Package source defines where note documents come from.
//
// The graph engine never touches storage. A [Source] hands the pipeline one
// ordered snapshot of a group's documents per call; the order is the order
// nodes take in the graph. Implementations live in subpackages:
//
//   - source/local: a storage directory of JSON notes, or a Markdown vault
//   - source/mongo: a MongoDB collection
//
// Malformed records are skipped and counted in [Result.Skipped] rather than
// failing the whole read.
package source

import (
	"context"
	"errors"
	"time"

	"github.com/Errze/note-bad-ideas/pkg/graph"
)

// ErrGroupNotFound is returned when a group does not exist in the source.
var ErrGroupNotFound = errors.New("group not found")

// Group is a named collection of notes.
type Group struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"createdAt,omitempty"`
}

// Result is one read of a group.
type Result struct {
	Group     string           `json:"group"`
	Documents []graph.Document `json:"documents"`
	Skipped   int              `json:"skipped"`
}

// Source lists groups and reads their documents.
type Source interface {
	Groups(ctx context.Context) ([]Group, error)
	Documents(ctx context.Context, group string) (*Result, error)
	Close() error
}
