package utils

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrUnauthenticated, fiber.StatusUnauthorized, CodeUnauthenticated},
		{domain.ErrExpiredToken, fiber.StatusForbidden, CodeTokenExpired},
		{domain.ErrInvalidSignature, fiber.StatusForbidden, CodeUnauthorized},
		{domain.ErrForbidden, fiber.StatusForbidden, CodeForbidden},
		{domain.ErrNoSuchUser, fiber.StatusNotFound, CodeNoSuchUser},
		{fmt.Errorf("load: %w", domain.ErrNotFound), fiber.StatusNotFound, CodeNotFound},
		{domain.ErrAlreadySold, fiber.StatusConflict, CodeAlreadySold},
		{domain.ErrConflict, fiber.StatusConflict, CodeConflict},
		{domain.ErrInvalidInput, fiber.StatusBadRequest, CodeInvalidInput},
		{domain.ErrUnavailable, fiber.StatusServiceUnavailable, CodeUnavailable},
		{fiber.ErrNotFound, fiber.StatusNotFound, CodeNotFound},
		{fmt.Errorf("boom"), fiber.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range cases {
		status, code := StatusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestResponseFromErrorHidesInternalMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return ResponseFromError(c, fmt.Errorf("dial tcp 10.0.0.1: refused"))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"errorCode":"INTERNAL_ERROR","message":"internal server error"}`, string(body))
}

func TestNormalizeAndValidateEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.com "))
	assert.NoError(t, ValidateEmail("a@b.com"))
	assert.Error(t, ValidateEmail("a@b"))
	assert.Error(t, ValidateEmail("@b.com"))
}
