// Package repository implements the jokes data operations on top of the
// pebble-orm query builder. Every operation takes the request context; the
// multi-step writes (joke creation and reset) run inside one transaction.
package repository

import (
	"time"

	"github.com/marshallshelly/pebble-orm/pkg/builder"
)

// Repositories groups the per-entity repositories over one query handle.
type Repositories struct {
	Categories *CategoryRepository
	Audiences  *AudienceRepository
	Jokes      *JokeRepository
	Admin      *AdminRepository
}

func New(db *builder.DB) *Repositories {
	return &Repositories{
		Categories: &CategoryRepository{db: db},
		Audiences:  &AudienceRepository{db: db},
		Jokes:      &JokeRepository{db: db},
		Admin:      &AdminRepository{db: db, now: time.Now},
	}
}

// ids converts identifiers into the argument list builder.In expects.
func ids(values []int64) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
