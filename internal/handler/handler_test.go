package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/marshallshelly/jokes-api/internal/logging"
	"github.com/marshallshelly/jokes-api/internal/middleware"
	"github.com/marshallshelly/jokes-api/internal/models"
	"github.com/marshallshelly/jokes-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory stand-in for the repositories.
type memStore struct {
	categories []models.CategoryDTO
	audiences  []models.AudienceDTO
	jokes      []models.JokeDTO
	err        error
}

type categoryFake struct{ *memStore }
type audienceFake struct{ *memStore }
type jokeFake struct{ *memStore }
type adminFake struct{ *memStore }

func (f categoryFake) List(context.Context) ([]models.CategoryDTO, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.CategoryDTO{}, f.categories...), nil
}

func (f categoryFake) Get(_ context.Context, id int64) (models.CategoryDTO, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return models.CategoryDTO{}, repository.ErrNotFound
}

func (f categoryFake) Create(_ context.Context, in models.CreateCategoryDTO) (models.CategoryDTO, error) {
	if f.err != nil {
		return models.CategoryDTO{}, f.err
	}
	c := models.CategoryDTO{ID: int64(len(f.categories) + 1), Name: in.Name}
	f.categories = append(f.categories, c)
	return c, nil
}

func (f audienceFake) List(context.Context) ([]models.AudienceDTO, error) {
	return append([]models.AudienceDTO{}, f.audiences...), nil
}

func (f audienceFake) Get(_ context.Context, id int64) (models.AudienceDTO, error) {
	for _, a := range f.audiences {
		if a.ID == id {
			return a, nil
		}
	}
	return models.AudienceDTO{}, repository.ErrNotFound
}

func (f audienceFake) Create(_ context.Context, in models.CreateAudienceDTO) (models.AudienceDTO, error) {
	a := models.AudienceDTO{ID: int64(len(f.audiences) + 1), Name: in.Name, Age: in.Age, Jokes: []string{}}
	f.audiences = append(f.audiences, a)
	return a, nil
}

func (f jokeFake) List(context.Context) ([]models.JokeDTO, error) {
	return append([]models.JokeDTO{}, f.jokes...), nil
}

func (f jokeFake) Get(_ context.Context, id int64) (models.JokeDTO, error) {
	for _, j := range f.jokes {
		if j.ID == id {
			return j, nil
		}
	}
	return models.JokeDTO{}, repository.ErrNotFound
}

func (f jokeFake) Create(ctx context.Context, in models.CreateJokeDTO) (models.JokeDTO, error) {
	category, err := categoryFake(f).Get(ctx, in.CategoryID)
	if err != nil {
		return models.JokeDTO{}, errors.New("foreign key violation")
	}

	j := models.JokeDTO{ID: int64(len(f.jokes) + 1), Content: in.Content, CategoryName: category.Name, Audiences: []string{}}
	for _, id := range models.UniqueIDs(in.AudienceIDs) {
		for i := range f.audiences {
			if f.audiences[i].ID == id {
				j.Audiences = append(j.Audiences, f.audiences[i].Name)
				f.audiences[i].Jokes = append(f.audiences[i].Jokes, in.Content)
			}
		}
	}
	f.jokes = append(f.jokes, j)
	return j, nil
}

func (f adminFake) Reset(context.Context) (models.ResetResult, error) {
	if f.err != nil {
		return models.ResetResult{}, f.err
	}
	deleted := models.DeletedItems{
		Jokes:      int64(len(f.jokes)),
		Audiences:  int64(len(f.audiences)),
		Categories: int64(len(f.categories)),
	}
	f.jokes, f.audiences, f.categories = nil, nil, nil
	return models.ResetResult{
		Message:      repository.ResetMessage,
		Timestamp:    time.Date(2025, 9, 28, 2, 48, 58, 0, time.UTC),
		DeletedItems: deleted,
	}, nil
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func setupApp(t *testing.T, store *memStore, db Pinger) *fiber.App {
	t.Helper()
	if db == nil {
		db = pingerFunc(func(context.Context) error { return nil })
	}

	logger := logging.Discard()
	h := New(Stores{
		Categories: categoryFake{store},
		Audiences:  audienceFake{store},
		Jokes:      jokeFake{store},
		Admin:      adminFake{store},
		DB:         db,
	}, logger)
	h.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	app.Use(middleware.RequestID())
	h.Register(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, string) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func TestScenarios(t *testing.T) {
	app := setupApp(t, &memStore{}, nil)

	resp, body := do(t, app, "POST", "/api/categories", `{"name":"Dad Jokes"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":1,"name":"Dad Jokes"}`, body)
	assert.Equal(t, "/api/categories/1", resp.Header.Get(fiber.HeaderLocation))

	resp, body = do(t, app, "GET", "/api/categories/1", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":1,"name":"Dad Jokes"}`, body)

	resp, body = do(t, app, "POST", "/api/audiences", `{"name":"Kids","age":8}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":1,"name":"Kids","age":8,"jokes":[]}`, body)
	assert.Equal(t, "/api/audiences/1", resp.Header.Get(fiber.HeaderLocation))

	resp, body = do(t, app, "POST", "/api/jokes", `{"content":"X","categoryId":1,"audienceIds":[1]}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":1,"content":"X","categoryName":"Dad Jokes","audiences":["Kids"]}`, body)
	assert.Equal(t, "/api/jokes/1", resp.Header.Get(fiber.HeaderLocation))

	resp, body = do(t, app, "GET", "/api/jokes/999", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Empty(t, body)

	resp, body = do(t, app, "GET", "/admin/reset", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{
		"message": "Database reset successfully",
		"timestamp": "2025-09-28T02:48:58Z",
		"deletedItems": {"jokes":1,"audiences":1,"categories":1}
	}`, body)

	resp, body = do(t, app, "GET", "/api/categories", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)
}

func TestNotFound(t *testing.T) {
	app := setupApp(t, &memStore{}, nil)

	for _, path := range []string{"/api/categories/5", "/api/audiences/5", "/api/jokes/5"} {
		t.Run(path, func(t *testing.T) {
			resp, body := do(t, app, "GET", path, "")
			assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
			assert.Empty(t, body)
		})
	}
}

func TestBadRequests(t *testing.T) {
	app := setupApp(t, &memStore{}, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"non numeric id", "GET", "/api/jokes/abc", ""},
		{"malformed category", "POST", "/api/categories", `{"name":`},
		{"malformed audience", "POST", "/api/audiences", `{"age":"eight"}`},
		{"malformed joke", "POST", "/api/jokes", `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var payload map[string]any
			require.NoError(t, json.Unmarshal([]byte(body), &payload))
			assert.Equal(t, float64(fiber.StatusBadRequest), payload["status"])
			assert.Equal(t, tt.path, payload["path"])
		})
	}
}

func TestStorageFailure(t *testing.T) {
	app := setupApp(t, &memStore{err: errors.New("connection refused")}, nil)

	req := httptest.NewRequest("GET", "/api/categories", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "Internal Server Error", payload["error"])
	assert.Equal(t, "GET", payload["method"])
	assert.Equal(t, "req-42", payload["requestId"])
	assert.NotContains(t, payload["error"], "connection refused")
}

func TestJokeWithUnknownCategory(t *testing.T) {
	app := setupApp(t, &memStore{}, nil)

	resp, _ := do(t, app, "POST", "/api/jokes", `{"content":"X","categoryId":7,"audienceIds":[]}`)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestResetFailure(t *testing.T) {
	app := setupApp(t, &memStore{err: errors.New("deadlock detected")}, nil)

	resp, body := do(t, app, "GET", "/admin/reset", "")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{
		"message": "Error resetting database",
		"error": "deadlock detected",
		"timestamp": "2025-01-02T03:04:05Z"
	}`, body)
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		app := setupApp(t, &memStore{}, nil)

		resp, body := do(t, app, "GET", "/health", "")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"status":"healthy"}`, body)
	})

	t.Run("database down", func(t *testing.T) {
		app := setupApp(t, &memStore{}, pingerFunc(func(context.Context) error {
			return errors.New("dial tcp: connection refused")
		}))

		resp, body := do(t, app, "GET", "/health", "")
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
		assert.JSONEq(t, `{"status":"unhealthy","error":"dial tcp: connection refused"}`, body)
	})
}
