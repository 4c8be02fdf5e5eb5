package models

import "time"

// Request bodies

type CreateCategoryDTO struct {
	Name string `json:"name"`
}

type CreateAudienceDTO struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type CreateJokeDTO struct {
	Content     string  `json:"content"`
	CategoryID  int64   `json:"categoryId"`
	AudienceIDs []int64 `json:"audienceIds"`
}

// Response bodies

type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AudienceDTO lists the content of every joke linked to the audience.
type AudienceDTO struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Age   int      `json:"age"`
	Jokes []string `json:"jokes"`
}

// JokeDTO lists the names of the audiences linked to the joke.
type JokeDTO struct {
	ID           int64    `json:"id"`
	Content      string   `json:"content"`
	CategoryName string   `json:"categoryName"`
	Audiences    []string `json:"audiences"`
}

// DeletedItems counts the rows removed by a reset, per entity.
type DeletedItems struct {
	Jokes      int64 `json:"jokes"`
	Audiences  int64 `json:"audiences"`
	Categories int64 `json:"categories"`
}

type ResetResult struct {
	Message      string       `json:"message"`
	Timestamp    time.Time    `json:"timestamp"`
	DeletedItems DeletedItems `json:"deletedItems"`
}

// Projections

func NewCategoryDTO(c Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name}
}

// NewAudienceDTO projects an audience and its preloaded jokes.
func NewAudienceDTO(a Audience) AudienceDTO {
	jokes := make([]string, 0, len(a.Jokes))
	for _, j := range a.Jokes {
		jokes = append(jokes, j.Content)
	}
	return AudienceDTO{
		ID:    a.ID,
		Name:  a.Name,
		Age:   a.Age,
		Jokes: jokes,
	}
}

// NewJokeDTO projects a joke with its preloaded category and audiences.
// A missing category projects as an empty name.
func NewJokeDTO(j Joke) JokeDTO {
	categoryName := ""
	if j.Category != nil {
		categoryName = j.Category.Name
	}
	audiences := make([]string, 0, len(j.Audiences))
	for _, a := range j.Audiences {
		audiences = append(audiences, a.Name)
	}
	return JokeDTO{
		ID:           j.ID,
		Content:      j.Content,
		CategoryName: categoryName,
		Audiences:    audiences,
	}
}

// UniqueIDs drops repeated ids, keeping first-seen order.
func UniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
