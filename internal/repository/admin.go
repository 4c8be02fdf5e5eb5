package repository

import (
	"context"
	"time"

	"github.com/marshallshelly/jokes-api/internal/models"
	"github.com/marshallshelly/pebble-orm/pkg/builder"
)

// ResetMessage is reported by a successful reset.
const ResetMessage = "Database reset successfully"

type AdminRepository struct {
	db  *builder.DB
	now func() time.Time
}

// Reset erases every joke, audience and category in one transaction.
// Audience links are removed joke by joke first, then jokes, audiences and
// categories are deleted in that order. On failure nothing is removed.
func (r *AdminRepository) Reset(ctx context.Context) (models.ResetResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.ResetResult{}, wrap("reset", err)
	}
	defer func() { _ = tx.Rollback() }()

	jokes, err := builder.TxSelect[models.Joke](tx).ForUpdate().All()
	if err != nil {
		return models.ResetResult{}, wrap("reset: load jokes", err)
	}
	links, err := builder.TxSelect[models.AudienceJoke](tx).All()
	if err != nil {
		return models.ResetResult{}, wrap("reset: load associations", err)
	}

	linked := make(map[int64]bool, len(links))
	for _, l := range links {
		linked[l.JokeID] = true
	}
	for _, j := range jokes {
		if !linked[j.ID] {
			continue
		}
		if _, err := deleteAssociationsFor(tx, j.ID); err != nil {
			return models.ResetResult{}, err
		}
	}

	var deleted models.DeletedItems

	if deleted.Jokes, err = builder.TxDelete[models.Joke](tx).Exec(); err != nil {
		return models.ResetResult{}, wrap("reset: delete jokes", err)
	}
	if deleted.Audiences, err = builder.TxDelete[models.Audience](tx).Exec(); err != nil {
		return models.ResetResult{}, wrap("reset: delete audiences", err)
	}
	if deleted.Categories, err = builder.TxDelete[models.Category](tx).Exec(); err != nil {
		return models.ResetResult{}, wrap("reset: delete categories", err)
	}

	if err := tx.Commit(); err != nil {
		return models.ResetResult{}, wrap("reset", err)
	}

	return models.ResetResult{
		Message:      ResetMessage,
		Timestamp:    r.now().UTC(),
		DeletedItems: deleted,
	}, nil
}
