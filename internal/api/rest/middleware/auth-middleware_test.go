package middleware

import (
	"context"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/dto"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLookup struct {
	users map[string]domain.Role
	calls atomic.Int32
}

func (l *countingLookup) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	l.calls.Add(1)
	role, ok := l.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.User{Email: email, Role: role}, nil
}

func newLookup() *countingLookup {
	return &countingLookup{users: map[string]domain.Role{
		"admin@example.com":  domain.RoleAdmin,
		"seller@example.com": domain.RoleSeller,
		"buyer@example.com":  domain.RoleBuyer,
	}}
}

func bearer(t *testing.T, auth helper.Auth, email string) string {
	t.Helper()
	token, err := auth.GenerateToken(email)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestGateRejectsMissingCredentialWithoutStorage(t *testing.T) {
	auth := helper.SetupAuth("secret", time.Hour)
	users := newLookup()
	run := Pipeline(Gate(auth), AdminOnly(users))

	for _, header := range []string{"", "Bearer", "Bearer   ", "Token abc", "abc"} {
		_, err := run(context.Background(), Request{Authorization: header})
		assert.ErrorIs(t, err, domain.ErrUnauthenticated, "header %q", header)
	}
	assert.Zero(t, users.calls.Load())
}

func TestGateRejectsBadToken(t *testing.T) {
	auth := helper.SetupAuth("secret", time.Hour)
	other := helper.SetupAuth("other", time.Hour)
	users := newLookup()
	run := Pipeline(Gate(auth), BuyerOnly(users))

	_, err := run(context.Background(), Request{Authorization: bearer(t, other, "buyer@example.com")})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Zero(t, users.calls.Load())
}

func TestRequireRole(t *testing.T) {
	auth := helper.SetupAuth("secret", time.Hour)
	users := newLookup()

	cases := []struct {
		name  string
		email string
		stage Stage
		err   error
	}{
		{"admin admitted", "admin@example.com", AdminOnly(users), nil},
		{"seller not admin", "seller@example.com", AdminOnly(users), domain.ErrForbidden},
		{"seller admitted", "seller@example.com", SellerOnly(users), nil},
		{"buyer not seller", "buyer@example.com", SellerOnly(users), domain.ErrForbidden},
		{"buyer admitted", "buyer@example.com", BuyerOnly(users), nil},
		{"admin not buyer", "admin@example.com", BuyerOnly(users), domain.ErrForbidden},
		{"absent user", "ghost@example.com", BuyerOnly(users), domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := Pipeline(Gate(auth), tc.stage)(context.Background(), Request{
				Authorization: bearer(t, auth, tc.email),
			})
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, req.Identity)
			assert.Equal(t, tc.email, req.Identity.Email)
		})
	}
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	_, err := AdminOnly(newLookup())(context.Background(), Request{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestGuardOverHTTP(t *testing.T) {
	auth := helper.SetupAuth("secret", time.Hour)
	users := newLookup()
	guards := NewGuards(auth, users)

	app := fiber.New()
	app.Get("/admin", guards.Admin, func(c *fiber.Ctx) error {
		identity, ok := IdentityFrom(c.UserContext())
		if !ok {
			return fiber.ErrInternalServerError
		}
		local := c.Locals("user").(dto.AuthResponse)
		return c.SendString(identity.Email + "|" + local.Email)
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", fiber.StatusUnauthorized},
		{"bad token", "Bearer not-a-jwt", fiber.StatusForbidden},
		{"wrong role", bearer(t, auth, "buyer@example.com"), fiber.StatusForbidden},
		{"admin", bearer(t, auth, "admin@example.com"), fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
