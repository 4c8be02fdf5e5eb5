package repository

import (
	"context"

	"github.com/marshallshelly/jokes-api/internal/models"
	"github.com/marshallshelly/pebble-orm/pkg/builder"
)

type AudienceRepository struct {
	db *builder.DB
}

// List returns every audience with the content of its linked jokes.
func (r *AudienceRepository) List(ctx context.Context) ([]models.AudienceDTO, error) {
	audiences, err := builder.Select[models.Audience](r.db).
		Preload("Jokes").
		OrderByAsc(builder.Col[models.Audience]("ID")).
		All(ctx)
	if err != nil {
		return nil, wrap("list audiences", err)
	}

	out := make([]models.AudienceDTO, 0, len(audiences))
	for _, a := range audiences {
		out = append(out, models.NewAudienceDTO(a))
	}
	return out, nil
}

func (r *AudienceRepository) Get(ctx context.Context, id int64) (models.AudienceDTO, error) {
	audiences, err := builder.Select[models.Audience](r.db).
		Where(builder.Eq(builder.Col[models.Audience]("ID"), id)).
		Preload("Jokes").
		All(ctx)
	if err != nil {
		return models.AudienceDTO{}, wrap("get audience", err)
	}
	if len(audiences) == 0 {
		return models.AudienceDTO{}, ErrNotFound
	}
	return models.NewAudienceDTO(audiences[0]), nil
}

// Create inserts an audience with no linked jokes.
func (r *AudienceRepository) Create(ctx context.Context, in models.CreateAudienceDTO) (models.AudienceDTO, error) {
	audiences, err := builder.Insert[models.Audience](r.db).
		Values(models.Audience{Name: in.Name, Age: in.Age}).
		Returning("*").
		ExecReturning(ctx)
	if err != nil {
		return models.AudienceDTO{}, wrap("create audience", err)
	}
	return models.NewAudienceDTO(audiences[0]), nil
}
