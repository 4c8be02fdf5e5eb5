package repository

import (
	"context"

	"github.com/marshallshelly/jokes-api/internal/models"
	"github.com/marshallshelly/pebble-orm/pkg/builder"
)

type CategoryRepository struct {
	db *builder.DB
}

// List returns every category ordered by id.
func (r *CategoryRepository) List(ctx context.Context) ([]models.CategoryDTO, error) {
	categories, err := builder.Select[models.Category](r.db).
		OrderByAsc(builder.Col[models.Category]("ID")).
		All(ctx)
	if err != nil {
		return nil, wrap("list categories", err)
	}

	out := make([]models.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, models.NewCategoryDTO(c))
	}
	return out, nil
}

func (r *CategoryRepository) Get(ctx context.Context, id int64) (models.CategoryDTO, error) {
	categories, err := builder.Select[models.Category](r.db).
		Where(builder.Eq(builder.Col[models.Category]("ID"), id)).
		All(ctx)
	if err != nil {
		return models.CategoryDTO{}, wrap("get category", err)
	}
	if len(categories) == 0 {
		return models.CategoryDTO{}, ErrNotFound
	}
	return models.NewCategoryDTO(categories[0]), nil
}

// Create inserts a category. Name constraints are enforced by the schema.
func (r *CategoryRepository) Create(ctx context.Context, in models.CreateCategoryDTO) (models.CategoryDTO, error) {
	categories, err := builder.Insert[models.Category](r.db).
		Values(models.Category{Name: in.Name}).
		Returning("*").
		ExecReturning(ctx)
	if err != nil {
		return models.CategoryDTO{}, wrap("create category", err)
	}
	return models.NewCategoryDTO(categories[0]), nil
}
