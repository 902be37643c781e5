package handlers

import (
	"errors"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/api/rest/middleware"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/dto"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper/utils"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	svc  services.UserService
	auth helper.Auth
}

func NewUserHandler(svc services.UserService, auth helper.Auth) *UserHandler {
	return &UserHandler{svc: svc, auth: auth}
}

func (h *UserHandler) SetupRoutes(app *fiber.App, guards middleware.Guards) {
	// Auth
	app.Get("/jwt", h.IssueToken)
	app.Post("/users", h.Signup)

	// Identity checks
	app.Get("/users/admin/:email", guards.Authenticated, h.IsAdmin)
	app.Get("/users/seller/:email", guards.Authenticated, h.IsSeller)
	app.Get("/users/buyer/:email", guards.Authenticated, h.IsBuyer)
	app.Get("/sellerVerify/:email", guards.Authenticated, h.IsVerifiedSeller)

	// Admin
	app.Get("/users", guards.Admin, h.ListUsers)
	app.Put("/users", guards.Admin, h.VerifySeller)
	app.Delete("/users/:id", guards.Admin, h.DeleteUser)
}

// IssueToken godoc
// @Summary Issue an access token
// @Description Signs a token for an email that already signed up.
// @Tags Auth
// @Produce json
// @Param email query string true "user email"
// @Success 200 {object} dto.APISuccessToken
// @Failure 404 {object} dto.APIError
// @Router /jwt [get]
func (h *UserHandler) IssueToken(ctx *fiber.Ctx) error {
	token, err := h.svc.IssueToken(ctx.UserContext(), ctx.Query("email"))
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchUser) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"errorCode":   utils.CodeNoSuchUser,
				"message":     err.Error(),
				"accessToken": "",
			})
		}
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.TokenResponse{AccessToken: token})
}

// Signup godoc
// @Summary Sign up or refresh a profile
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.SignupRequest true "profile"
// @Success 200 {object} dto.APISuccessAny
// @Failure 400 {object} dto.APIError
// @Router /users [post]
func (h *UserHandler) Signup(ctx *fiber.Ctx) error {
	var requestBody dto.SignupRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid inputs")
	}

	user, err := h.svc.Signup(ctx.UserContext(), requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

// @Summary Is the email an admin
// @Tags Users
// @Security BearerAuth
// @Param email path string true "email"
// @Success 200 {object} dto.APISuccessAny
// @Router /users/admin/{email} [get]
func (h *UserHandler) IsAdmin(ctx *fiber.Ctx) error {
	ok, err := h.svc.HasRole(ctx.UserContext(), ctx.Params("email"), domain.RoleAdmin)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.IsAdminResponse{IsAdmin: ok})
}

// @Summary Is the email a seller
// @Tags Users
// @Security BearerAuth
// @Param email path string true "email"
// @Success 200 {object} dto.APISuccessAny
// @Router /users/seller/{email} [get]
func (h *UserHandler) IsSeller(ctx *fiber.Ctx) error {
	ok, err := h.svc.HasRole(ctx.UserContext(), ctx.Params("email"), domain.RoleSeller)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.IsSellerResponse{IsSeller: ok})
}

// @Summary Is the email a buyer
// @Tags Users
// @Security BearerAuth
// @Param email path string true "email"
// @Success 200 {object} dto.APISuccessAny
// @Router /users/buyer/{email} [get]
func (h *UserHandler) IsBuyer(ctx *fiber.Ctx) error {
	ok, err := h.svc.HasRole(ctx.UserContext(), ctx.Params("email"), domain.RoleBuyer)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.IsBuyerResponse{IsBuyer: ok})
}

// @Summary Is the email a verified seller
// @Tags Users
// @Security BearerAuth
// @Param email path string true "email"
// @Success 200 {object} dto.APISuccessAny
// @Router /sellerVerify/{email} [get]
func (h *UserHandler) IsVerifiedSeller(ctx *fiber.Ctx) error {
	ok, err := h.svc.IsVerifiedSeller(ctx.UserContext(), ctx.Params("email"))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.IsVerifiedResponse{IsVerified: ok})
}

// @Summary List users
// @Tags Admin
// @Security BearerAuth
// @Param role query string false "buyer | seller | admin"
// @Success 200 {object} dto.APISuccessAny
// @Failure 403 {object} dto.APIError
// @Router /users [get]
func (h *UserHandler) ListUsers(ctx *fiber.Ctx) error {
	users, err := h.svc.ListUsers(ctx.UserContext(), ctx.Query("role"))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, users)
}

// @Summary Verify a seller and their products
// @Tags Admin
// @Security BearerAuth
// @Param email query string true "seller email"
// @Success 200 {object} dto.APISuccessAny
// @Failure 404 {object} dto.APIError
// @Router /users [put]
func (h *UserHandler) VerifySeller(ctx *fiber.Ctx) error {
	admin, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	res, err := h.svc.VerifySeller(ctx.UserContext(), admin.Email, ctx.Query("email"))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, res)
}

// @Summary Delete a user
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "user id"
// @Success 200 {object} dto.APISuccessString
// @Failure 404 {object} dto.APIError
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(ctx *fiber.Ctx) error {
	admin, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	if err := h.svc.DeleteUser(ctx.UserContext(), admin.Email, ctx.Params("id")); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "user deleted")
}
