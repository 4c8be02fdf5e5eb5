package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/marshallshelly/jokes-api/internal/models"
	"github.com/marshallshelly/pebble-orm/pkg/builder"
)

type JokeRepository struct {
	db *builder.DB
}

// List returns every joke with its category name and audience names.
func (r *JokeRepository) List(ctx context.Context) ([]models.JokeDTO, error) {
	jokes, err := builder.Select[models.Joke](r.db).
		Preload("Category", "Audiences").
		OrderByAsc(builder.Col[models.Joke]("ID")).
		All(ctx)
	if err != nil {
		return nil, wrap("list jokes", err)
	}

	out := make([]models.JokeDTO, 0, len(jokes))
	for _, j := range jokes {
		out = append(out, models.NewJokeDTO(j))
	}
	return out, nil
}

func (r *JokeRepository) Get(ctx context.Context, id int64) (models.JokeDTO, error) {
	jokes, err := builder.Select[models.Joke](r.db).
		Where(builder.Eq(builder.Col[models.Joke]("ID"), id)).
		Preload("Category", "Audiences").
		All(ctx)
	if err != nil {
		return models.JokeDTO{}, wrap("get joke", err)
	}
	if len(jokes) == 0 {
		return models.JokeDTO{}, ErrNotFound
	}
	return models.NewJokeDTO(jokes[0]), nil
}

// Create inserts a joke and links it to the audiences in in.AudienceIDs
// that exist; unknown audience ids are ignored. An unknown category fails
// the insert and nothing is written.
func (r *JokeRepository) Create(ctx context.Context, in models.CreateJokeDTO) (models.JokeDTO, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.JokeDTO{}, wrap("create joke", err)
	}
	defer func() { _ = tx.Rollback() }()

	var audiences []models.Audience
	if audienceIDs := models.UniqueIDs(in.AudienceIDs); len(audienceIDs) > 0 {
		audiences, err = builder.TxSelect[models.Audience](tx).
			Where(builder.In(builder.Col[models.Audience]("ID"), ids(audienceIDs)...)).
			OrderBy(builder.Col[models.Audience]("ID"), builder.Asc).
			All()
		if err != nil {
			return models.JokeDTO{}, wrap("resolve audiences", err)
		}
	}

	inserted, err := builder.TxInsert[models.Joke](tx).
		Values(models.Joke{Content: in.Content, CategoryID: in.CategoryID}).
		Returning("*").
		ExecReturning()
	if err != nil {
		return models.JokeDTO{}, wrap("create joke", err)
	}
	if len(inserted) == 0 {
		return models.JokeDTO{}, fmt.Errorf("create joke: insert returned no rows")
	}
	joke := inserted[0]

	if err := linkAudiences(tx, joke.ID, audiences); err != nil {
		return models.JokeDTO{}, err
	}

	category, err := builder.TxSelect[models.Category](tx).
		Where(builder.Eq(builder.Col[models.Category]("ID"), joke.CategoryID)).
		First()
	switch {
	case err == nil:
		joke.Category = &category
	case errors.Is(err, pgx.ErrNoRows):
		// Projected with an empty category name.
	default:
		return models.JokeDTO{}, wrap("load category", err)
	}

	if err := tx.Commit(); err != nil {
		return models.JokeDTO{}, wrap("create joke", err)
	}

	joke.Audiences = audiences
	return models.NewJokeDTO(joke), nil
}

// DeleteAssociationsFor unlinks every audience from the joke and returns
// the number of links removed.
func (r *JokeRepository) DeleteAssociationsFor(ctx context.Context, jokeID int64) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, wrap("delete joke associations", err)
	}
	defer func() { _ = tx.Rollback() }()

	n, err := deleteAssociationsFor(tx, jokeID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, wrap("delete joke associations", err)
	}
	return n, nil
}
