//go:build integration

package server_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/marshallshelly/jokes-api/internal/config"
	"github.com/marshallshelly/jokes-api/internal/handler"
	"github.com/marshallshelly/jokes-api/internal/logging"
	"github.com/marshallshelly/jokes-api/internal/models"
	"github.com/marshallshelly/jokes-api/internal/repository"
	"github.com/marshallshelly/jokes-api/internal/server"
	"github.com/marshallshelly/jokes-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestIntegration_API(t *testing.T) {
	tdb := testdb.New(t)
	repos := repository.New(tdb.Query)

	app := server.New(config.Default().Server, handler.Stores{
		Categories: repos.Categories,
		Audiences:  repos.Audiences,
		Jokes:      repos.Jokes,
		Admin:      repos.Admin,
		DB:         tdb.Runtime.Pool(),
	}, logging.Discard())

	t.Run("empty category list", func(t *testing.T) {
		tdb.Truncate(t)

		status, body := request(t, app, "GET", "/api/categories", "")
		assert.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, `[]`, body)
	})

	t.Run("create and fetch", func(t *testing.T) {
		tdb.Truncate(t)

		status, body := request(t, app, "POST", "/api/categories", `{"name":"Dad Jokes"}`)
		assert.Equal(t, fiber.StatusCreated, status)
		assert.JSONEq(t, `{"id":1,"name":"Dad Jokes"}`, body)

		status, body = request(t, app, "GET", "/api/categories/1", "")
		assert.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, `{"id":1,"name":"Dad Jokes"}`, body)

		status, body = request(t, app, "POST", "/api/audiences", `{"name":"Kids","age":8}`)
		assert.Equal(t, fiber.StatusCreated, status)
		assert.JSONEq(t, `{"id":1,"name":"Kids","age":8,"jokes":[]}`, body)

		status, body = request(t, app, "POST", "/api/jokes", `{"content":"X","categoryId":1,"audienceIds":[1]}`)
		assert.Equal(t, fiber.StatusCreated, status)
		assert.JSONEq(t, `{"id":1,"content":"X","categoryName":"Dad Jokes","audiences":["Kids"]}`, body)

		status, body = request(t, app, "GET", "/api/audiences/1", "")
		assert.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, `{"id":1,"name":"Kids","age":8,"jokes":["X"]}`, body)

		status, body = request(t, app, "GET", "/api/jokes/999", "")
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Empty(t, body)

		status, body = request(t, app, "GET", "/admin/reset", "")
		assert.Equal(t, fiber.StatusOK, status)

		var result models.ResetResult
		require.NoError(t, json.Unmarshal([]byte(body), &result))
		assert.Equal(t, repository.ResetMessage, result.Message)
		assert.Equal(t, models.DeletedItems{Jokes: 1, Audiences: 1, Categories: 1}, result.DeletedItems)

		status, body = request(t, app, "GET", "/api/categories", "")
		assert.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, `[]`, body)
	})

	t.Run("joke with unknown category", func(t *testing.T) {
		tdb.Truncate(t)

		status, _ := request(t, app, "POST", "/api/jokes", `{"content":"X","categoryId":5,"audienceIds":[]}`)
		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.Equal(t, int64(0), tdb.Count(t, "jokes"))
	})

	t.Run("health", func(t *testing.T) {
		status, body := request(t, app, "GET", "/health", "")
		assert.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, `{"status":"healthy"}`, body)
	})
}
