package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/dto"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper/utils"
	"github.com/gofiber/fiber/v2"
)

// Request is what the stages see of an incoming call.
type Request struct {
	Authorization string
	Identity      *dto.AuthResponse
}

// Stage inspects or enriches a request. A non-nil error stops the pipeline.
type Stage func(ctx context.Context, req Request) (Request, error)

// TokenVerifier is satisfied by helper.Auth.
type TokenVerifier interface {
	VerifyToken(token string) (dto.AuthResponse, error)
}

// UserLookup is the only storage capability the role stages need.
type UserLookup interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type identityKey struct{}

// IdentityFrom returns the identity attached by Gate.
func IdentityFrom(ctx context.Context) (dto.AuthResponse, bool) {
	id, ok := ctx.Value(identityKey{}).(dto.AuthResponse)
	return id, ok
}

func Pipeline(stages ...Stage) Stage {
	return func(ctx context.Context, req Request) (Request, error) {
		var err error
		for _, stage := range stages {
			if req, err = stage(ctx, req); err != nil {
				return req, err
			}
		}
		return req, nil
	}
}

// Gate requires an "Authorization: Bearer <token>" header. A missing or
// malformed header is rejected before the token is even parsed.
func Gate(auth TokenVerifier) Stage {
	return func(_ context.Context, req Request) (Request, error) {
		scheme, token, ok := strings.Cut(strings.TrimSpace(req.Authorization), " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return req, domain.ErrUnauthenticated
		}

		identity, err := auth.VerifyToken(token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return req, err
			}
			return req, domain.ErrInvalidSignature
		}
		req.Identity = &identity
		return req, nil
	}
}

// RequireRole admits the request only when the stored role of the gated
// identity equals role.
func RequireRole(users UserLookup, role domain.Role) Stage {
	return func(ctx context.Context, req Request) (Request, error) {
		if req.Identity == nil {
			return req, domain.ErrUnauthenticated
		}
		user, err := users.FindUserByEmail(ctx, req.Identity.Email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return req, domain.ErrForbidden
			}
			return req, err
		}
		if user.Role != role {
			return req, domain.ErrForbidden
		}
		return req, nil
	}
}

func AdminOnly(users UserLookup) Stage {
	return RequireRole(users, domain.RoleAdmin)
}

func SellerOnly(users UserLookup) Stage {
	return RequireRole(users, domain.RoleSeller)
}

func BuyerOnly(users UserLookup) Stage {
	return RequireRole(users, domain.RoleBuyer)
}

// Guard runs the stages against the fiber request and stores the identity in
// Locals("user") and the user context.
func Guard(stages ...Stage) fiber.Handler {
	run := Pipeline(stages...)
	return func(ctx *fiber.Ctx) error {
		req, err := run(ctx.UserContext(), Request{Authorization: ctx.Get(fiber.HeaderAuthorization)})
		if err != nil {
			return utils.ResponseFromError(ctx, err)
		}
		if req.Identity != nil {
			ctx.Locals("user", *req.Identity)
			ctx.SetUserContext(context.WithValue(ctx.UserContext(), identityKey{}, *req.Identity))
		}
		return ctx.Next()
	}
}

// Guards are the handler chains the routes are mounted behind.
type Guards struct {
	Authenticated fiber.Handler
	Admin         fiber.Handler
	Seller        fiber.Handler
	Buyer         fiber.Handler
}

func NewGuards(auth TokenVerifier, users UserLookup) Guards {
	gate := Gate(auth)
	return Guards{
		Authenticated: Guard(gate),
		Admin:         Guard(gate, AdminOnly(users)),
		Seller:        Guard(gate, SellerOnly(users)),
		Buyer:         Guard(gate, BuyerOnly(users)),
	}
}
