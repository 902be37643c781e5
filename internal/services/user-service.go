package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/dto"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper/utils"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/interfaces"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/repository"
)

type UserService interface {
	// Auth
	Signup(ctx context.Context, input dto.SignupRequest) (*domain.User, error)
	IssueToken(ctx context.Context, email string) (string, error)

	// Identity checks
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	HasRole(ctx context.Context, email string, role domain.Role) (bool, error)
	IsVerifiedSeller(ctx context.Context, email string) (bool, error)

	// Admin
	ListUsers(ctx context.Context, role string) ([]domain.User, error)
	DeleteUser(ctx context.Context, actor, id string) error
	VerifySeller(ctx context.Context, actor, email string) (*dto.VerifySellerResponse, error)
}

type userService struct {
	store *repository.Store
	auth  helper.Auth

	events publisher
	log    *slog.Logger
}

func NewUserService(store *repository.Store, auth helper.Auth, producer interfaces.ProducerHandler, logger *slog.Logger) UserService {
	log := resolveLogger(logger).With("service", "user")
	return &userService{
		store:  store,
		auth:   auth,
		events: publisher{producer: producer, log: log},
		log:    log,
	}
}

func (s *userService) Signup(ctx context.Context, input dto.SignupRequest) (*domain.User, error) {
	email := utils.NormalizeEmail(input.Email)
	if err := utils.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	role := domain.RoleBuyer
	if strings.TrimSpace(input.Role) != "" {
		parsed, ok := domain.ParseRole(input.Role)
		if !ok || !parsed.SignupAllowed() {
			return nil, fmt.Errorf("%w: role must be buyer or seller", domain.ErrInvalidInput)
		}
		role = parsed
	}

	user, err := s.store.Users.UpsertUser(ctx, &domain.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		PhotoURL: strings.TrimSpace(input.PhotoURL),
		Role:     role,
	})
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	s.log.Info("user signed up", "email", email, "role", user.Role)
	return user, nil
}

// IssueToken only signs for a user that already exists.
func (s *userService) IssueToken(ctx context.Context, email string) (string, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}

	if _, err := s.store.Users.FindUserByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNoSuchUser
		}
		return "", fmt.Errorf("issue token: %w", err)
	}
	return s.auth.GenerateToken(email)
}

func (s *userService) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.store.Users.FindUserByEmail(ctx, utils.NormalizeEmail(email))
}

func (s *userService) HasRole(ctx context.Context, email string, role domain.Role) (bool, error) {
	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Role == role, nil
}

func (s *userService) IsVerifiedSeller(ctx context.Context, email string) (bool, error) {
	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Role == domain.RoleSeller && user.Verified, nil
}

func (s *userService) ListUsers(ctx context.Context, role string) ([]domain.User, error) {
	var filter domain.Role
	if strings.TrimSpace(role) != "" {
		parsed, ok := domain.ParseRole(role)
		if !ok {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
		}
		filter = parsed
	}
	return s.store.Users.ListUsers(ctx, filter)
}

func (s *userService) DeleteUser(ctx context.Context, actor, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}
	if err := s.store.Users.DeleteUserByID(ctx, id); err != nil {
		return err
	}
	audit(ctx, s.store, s.log, actor, domain.AuditDeleteUser, "user", id, "")
	return nil
}

// VerifySeller marks the seller verified, then fans the flag out to every
// product they listed. A seller with no products is still verified.
func (s *userService) VerifySeller(ctx context.Context, actor, email string) (*dto.VerifySellerResponse, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}

	user, err := s.store.Users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleSeller {
		return nil, fmt.Errorf("%w: %s is not a seller", domain.ErrInvalidInput, email)
	}

	if err := s.store.Users.SetVerified(ctx, email); err != nil {
		return nil, fmt.Errorf("verify seller: %w", err)
	}
	n, err := s.store.Products.MarkVerifiedBySeller(ctx, email)
	if err != nil {
		s.log.Error("seller verified but product fan-out failed", "email", email, "err", err)
		return nil, fmt.Errorf("verify seller products: %w", err)
	}

	audit(ctx, s.store, s.log, actor, domain.AuditVerifySeller, "user", user.ID, fmt.Sprintf("%d products", n))
	s.events.publish(ctx, email, dto.SellerVerifiedEvent{
		Event:            dto.EventSellerVerified,
		Email:            email,
		ProductsVerified: n,
	})

	return &dto.VerifySellerResponse{Email: email, Verified: true, ProductsVerified: n}, nil
}

// audit records an admin action. Losing an audit row is logged, not fatal.
func audit(ctx context.Context, store *repository.Store, log *slog.Logger, actor, action, entity, entityID, note string) {
	entry := &domain.AuditLog{
		ActorEmail: actor,
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
	}
	if note != "" {
		entry.Note = &note
	}
	if err := store.Audit.CreateAuditLog(ctx, entry); err != nil {
		log.Error("write audit log", "action", action, "entity_id", entityID, "err", err)
	}
}
