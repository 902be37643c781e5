package handlers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/api/rest/middleware"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/dto"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper/utils"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/services"
	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PaymentHandler struct {
	svc  services.PaymentService
	auth helper.Auth
}

func NewPaymentHandler(svc services.PaymentService, auth helper.Auth) *PaymentHandler {
	return &PaymentHandler{svc: svc, auth: auth}
}

func (h *PaymentHandler) SetupRoutes(app *fiber.App, guards middleware.Guards) {
	app.Post("/create-payment-intent", guards.Buyer, h.CreatePaymentIntent)
	app.Post("/payments", guards.Buyer, h.Pay)
	app.Get("/payments/export", guards.Admin, h.ExportPayments)
}

// @Summary Create a card payment intent
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Param body body dto.PaymentIntentRequest true "product"
// @Success 200 {object} dto.APISuccessAny
// @Failure 503 {object} dto.APIError
// @Router /create-payment-intent [post]
func (h *PaymentHandler) CreatePaymentIntent(ctx *fiber.Ctx) error {
	buyer, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	var requestBody dto.PaymentIntentRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid inputs")
	}

	intent, err := h.svc.CreateIntent(ctx.UserContext(), buyer.Email, requestBody.ProductID)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, intent)
}

// @Summary Record a completed payment
// @Description Idempotent by transactionId.
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Param body body dto.PaymentRequest true "payment"
// @Success 200 {object} dto.APISuccessAny
// @Failure 409 {object} dto.APIError
// @Router /payments [post]
func (h *PaymentHandler) Pay(ctx *fiber.Ctx) error {
	buyer, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	var requestBody dto.PaymentRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid inputs")
	}

	payment, err := h.svc.Pay(ctx.UserContext(), buyer.Email, requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, payment)
}

// @Summary Export payments as xlsx
// @Tags Admin
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /payments/export [get]
func (h *PaymentHandler) ExportPayments(ctx *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.svc.ExportPayments(ctx.UserContext(), &buf); err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	filename := fmt.Sprintf("payments-%s.xlsx", time.Now().UTC().Format("20060102"))
	ctx.Set(fiber.HeaderContentType, xlsxContentType)
	ctx.Attachment(filename)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}
