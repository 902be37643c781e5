package handlers

import (
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/api/rest/middleware"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/dto"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper/utils"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	svc  services.MarketplaceService
	auth helper.Auth
}

func NewOrderHandler(svc services.MarketplaceService, auth helper.Auth) *OrderHandler {
	return &OrderHandler{svc: svc, auth: auth}
}

func (h *OrderHandler) SetupRoutes(app *fiber.App, guards middleware.Guards) {
	app.Put("/orders/revoke", guards.Authenticated, h.RevokeBooking)
	app.Put("/orders", guards.Buyer, h.Book)
	app.Get("/orders", guards.Authenticated, h.ListBuyerOrders)
	app.Delete("/orders/:id", guards.Authenticated, h.DeleteOrder)
	app.Get("/checkOrders", guards.Authenticated, h.CheckBooking)
}

// @Summary Book a product
// @Description Upserts the order for the product. The last booking wins.
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Param id query string true "product id"
// @Param body body dto.BookOrderRequest true "meeting details"
// @Success 200 {object} dto.APISuccessAny
// @Failure 409 {object} dto.APIError
// @Router /orders [put]
func (h *OrderHandler) Book(ctx *fiber.Ctx) error {
	buyer, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	var requestBody dto.BookOrderRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid inputs")
	}

	order, err := h.svc.Book(ctx.UserContext(), buyer.Email, ctx.Query("id"), requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, order)
}

// @Summary Revoke a booking
// @Tags Orders
// @Security BearerAuth
// @Param id query string true "product id"
// @Success 200 {object} dto.APISuccessString
// @Failure 409 {object} dto.APIError
// @Router /orders/revoke [put]
func (h *OrderHandler) RevokeBooking(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	if err := h.svc.RevokeBooking(ctx.UserContext(), caller.Email, ctx.Query("id")); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "booking revoked")
}

// @Summary Is a product booked
// @Tags Orders
// @Security BearerAuth
// @Param id query string true "product id"
// @Success 200 {object} dto.APISuccessAny
// @Router /checkOrders [get]
func (h *OrderHandler) CheckBooking(ctx *fiber.Ctx) error {
	booked, err := h.svc.CheckBooking(ctx.UserContext(), ctx.Query("id"))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.BookingStatusResponse{IsBooked: booked})
}

// @Summary List the caller's orders
// @Tags Orders
// @Security BearerAuth
// @Param email query string true "buyer email, must be the caller"
// @Success 200 {object} dto.APISuccessAny
// @Failure 403 {object} dto.APIError
// @Router /orders [get]
func (h *OrderHandler) ListBuyerOrders(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	orders, err := h.svc.ListBuyerOrders(ctx.UserContext(), caller.Email, ctx.Query("email"))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, orders)
}

// @Summary Delete an order
// @Tags Orders
// @Security BearerAuth
// @Param id path string true "order id"
// @Success 200 {object} dto.APISuccessString
// @Router /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	if err := h.svc.DeleteOrder(ctx.UserContext(), caller.Email, ctx.Params("id")); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "order deleted")
}
