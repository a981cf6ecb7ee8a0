package httperr

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, env string, handler fiber.Handler) (int, map[string]any) {
	t.Helper()

	app := fiber.New(fiber.Config{ErrorHandler: Handler(env)})
	app.Get("/boom", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestStatusWord(t *testing.T) {
	assert.Equal(t, "fail", statusWord(400))
	assert.Equal(t, "fail", statusWord(404))
	assert.Equal(t, "error", statusWord(500))
	assert.Equal(t, "error", statusWord(503))
}

func TestHandlerOperationalError(t *testing.T) {
	code, body := doRequest(t, "production", func(c *fiber.Ctx) error {
		return Fail(New(fiber.StatusNotFound, "no tour found with that ID"))
	})

	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "no tour found with that ID", body["message"])
	assert.NotContains(t, body, "stack")
	assert.NotContains(t, body, "error")
}

func TestHandlerHidesProgrammingErrorsInProduction(t *testing.T) {
	code, body := doRequest(t, "production", func(c *fiber.Ctx) error {
		return errors.New("pq: secret connection string leaked")
	})

	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "something went very wrong", body["message"])
	assert.NotContains(t, body["message"], "secret")
	assert.NotContains(t, body, "stack")
}

func TestHandlerExposesDetailInDevelopment(t *testing.T) {
	code, body := doRequest(t, "development", func(c *fiber.Ctx) error {
		return Wrap(fiber.StatusBadRequest, errors.New("duplicate key"))
	})

	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "duplicate key", body["error"])
	assert.Contains(t, body, "stack")
}

func raiseWrapped(c *fiber.Ctx) error {
	return Wrap(fiber.StatusBadRequest, errors.New("duplicate key"))
}

func TestHandlerStackShowsOrigin(t *testing.T) {
	_, body := doRequest(t, "development", raiseWrapped)

	stack, ok := body["stack"].(string)
	require.True(t, ok)
	assert.Contains(t, stack, "raiseWrapped", "stack must point at where the error was built")
}

func TestHandlerFiberError(t *testing.T) {
	code, body := doRequest(t, "production", func(c *fiber.Ctx) error {
		return fiber.ErrMethodNotAllowed
	})

	assert.Equal(t, fiber.StatusMethodNotAllowed, code)
	assert.Equal(t, "fail", body["status"])
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(500, cause)
	assert.ErrorIs(t, err, cause)
}
