package repository

import (
	"github.com/marshallshelly/jokes-api/internal/models"
	"github.com/marshallshelly/pebble-orm/pkg/builder"
)

// linkAudiences writes one audience_jokes row per audience for jokeID.
func linkAudiences(tx *builder.Tx, jokeID int64, audiences []models.Audience) error {
	if len(audiences) == 0 {
		return nil
	}

	links := make([]interface{}, 0, len(audiences))
	for _, a := range audiences {
		links = append(links, models.AudienceJoke{AudienceID: a.ID, JokeID: jokeID})
	}

	if _, err := builder.TxInsert[models.AudienceJoke](tx).Values(links...).Exec(); err != nil {
		return wrap("link audiences", err)
	}
	return nil
}

// deleteAssociationsFor removes every audience link of one joke, leaving
// the joke and the audiences in place.
func deleteAssociationsFor(tx *builder.Tx, jokeID int64) (int64, error) {
	n, err := builder.TxDelete[models.AudienceJoke](tx).
		Where(builder.Eq(builder.Col[models.AudienceJoke]("JokeID"), jokeID)).
		Exec()
	if err != nil {
		return 0, wrap("delete joke associations", err)
	}
	return n, nil
}
