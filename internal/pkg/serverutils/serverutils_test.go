package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/pkg/apperror"
	"p2p-chat-be/internal/pkg/authtoken"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(t *testing.T, r io.Reader) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.NewDecoder(r).Decode(&m))
	return m
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/missing", func(c *fiber.Ctx) error { return apperror.ErrUserNotFound })
	app.Get("/wrapped", func(c *fiber.Ctx) error { return apperror.ErrStorage.Wrap(errors.New("pg down")) })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("boom") })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrUpgradeRequired })

	cases := []struct {
		path   string
		status int
		code   float64
	}{
		{"/missing", 404, apperror.CodeUserNotFound},
		{"/wrapped", 503, apperror.CodeStorage},
		{"/plain", 500, apperror.CodeServerError},
		{"/fiber", 426, 426},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.path)
		b := body(t, resp.Body)
		assert.Equal(t, false, b["success"])
		assert.Equal(t, tc.code, b["code"], tc.path)
	}
}

func TestJwtMiddleware(t *testing.T) {
	tokens := authtoken.NewService("secret", time.Hour)
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/me", NewJwtMiddleware(tokens), func(c *fiber.Ctx) error {
		id, ok := UserID(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"id": id})
	})

	token, err := tokens.Generate(42, "a@b.c", "08123456", "A")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(42), body(t, resp.Body)["id"])

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestValidate(t *testing.T) {
	err := Validate(&dto.RegisterRequest{Name: "A", Email: "not-an-email", PhoneNumber: "123"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.ErrInvalidParams))
	assert.Contains(t, apperror.GetMessage(err), "Email failed email")
	assert.Contains(t, apperror.GetMessage(err), "PhoneNumber failed min")

	assert.NoError(t, Validate(&dto.RegisterRequest{Name: "A", Email: "a@b.io", PhoneNumber: "08123456"}))
}

func TestBindAndValidate(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Post("/", func(c *fiber.Ctx) error {
		var req dto.LoginRequest
		if err := BindAndValidate(c, &req); err != nil {
			return err
		}
		return OK(c, "ok", req)
	})

	post := func(payload string) int {
		req := httptest.NewRequest("POST", "/", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, 200, post(`{"email":"a@b.io","phoneNumber":"08123456"}`))
	assert.Equal(t, 400, post(`{"email":"a@b.io"}`))
	assert.Equal(t, 400, post(`{`))
}
