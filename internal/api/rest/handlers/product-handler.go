package handlers

import (
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/api/rest/middleware"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/dto"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper/utils"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	svc  services.MarketplaceService
	auth helper.Auth
}

func NewProductHandler(svc services.MarketplaceService, auth helper.Auth) *ProductHandler {
	return &ProductHandler{svc: svc, auth: auth}
}

func (h *ProductHandler) SetupRoutes(app *fiber.App, guards middleware.Guards) {
	// Public
	app.Get("/category", h.ListCategories)
	app.Get("/blogs", h.ListBlogs)
	app.Get("/advertisedProducts", h.ListAdvertised)

	app.Get("/category/:id", guards.Authenticated, h.ListByCategory)

	// Seller
	app.Post("/products", guards.Seller, h.CreateProduct)
	app.Get("/products", guards.Seller, h.ListSellerProducts)
	app.Put("/products/advertise", guards.Seller, h.SetAdvertise)

	// Moderation
	app.Put("/products/unreport", guards.Admin, h.Unreport)
	app.Put("/products", guards.Authenticated, h.Report)
	app.Get("/reportedProducts", guards.Admin, h.ListReported)
	app.Delete("/reportedProducts", guards.Admin, h.DeleteReported)
}

// @Summary List categories
// @Tags Catalog
// @Success 200 {object} dto.APISuccessAny
// @Router /category [get]
func (h *ProductHandler) ListCategories(ctx *fiber.Ctx) error {
	categories, err := h.svc.ListCategories(ctx.UserContext())
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, categories)
}

// @Summary List blogs
// @Tags Catalog
// @Success 200 {object} dto.APISuccessAny
// @Router /blogs [get]
func (h *ProductHandler) ListBlogs(ctx *fiber.Ctx) error {
	blogs, err := h.svc.ListBlogs(ctx.UserContext())
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, blogs)
}

// @Summary List advertised products
// @Tags Catalog
// @Success 200 {object} dto.APISuccessAny
// @Router /advertisedProducts [get]
func (h *ProductHandler) ListAdvertised(ctx *fiber.Ctx) error {
	products, err := h.svc.ListAdvertised(ctx.UserContext())
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, products)
}

// @Summary List available products in a category
// @Tags Catalog
// @Security BearerAuth
// @Param id path string true "category id"
// @Success 200 {object} dto.APISuccessAny
// @Router /category/{id} [get]
func (h *ProductHandler) ListByCategory(ctx *fiber.Ctx) error {
	products, err := h.svc.ListByCategory(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, products)
}

// @Summary List a product for sale
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Param body body dto.CreateProductRequest true "product"
// @Success 201 {object} dto.APISuccessAny
// @Failure 400 {object} dto.APIError
// @Router /products [post]
func (h *ProductHandler) CreateProduct(ctx *fiber.Ctx) error {
	seller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	var requestBody dto.CreateProductRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid inputs")
	}

	product, err := h.svc.CreateProduct(ctx.UserContext(), seller.Email, requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, product)
}

// @Summary List the caller's own products
// @Tags Products
// @Security BearerAuth
// @Param email query string true "seller email, must be the caller"
// @Success 200 {object} dto.APISuccessAny
// @Failure 403 {object} dto.APIError
// @Router /products [get]
func (h *ProductHandler) ListSellerProducts(ctx *fiber.Ctx) error {
	seller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	products, err := h.svc.ListSellerProducts(ctx.UserContext(), seller.Email, ctx.Query("email"))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, products)
}

// @Summary Toggle advertising
// @Tags Products
// @Security BearerAuth
// @Param id query string true "product id"
// @Param advertise query bool false "defaults to true"
// @Success 200 {object} dto.APISuccessString
// @Failure 409 {object} dto.APIError
// @Router /products/advertise [put]
func (h *ProductHandler) SetAdvertise(ctx *fiber.Ctx) error {
	seller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	advertise := ctx.QueryBool("advertise", true)
	if err := h.svc.SetAdvertise(ctx.UserContext(), seller.Email, ctx.Query("id"), advertise); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "advertise updated")
}

// @Summary Report a product
// @Tags Moderation
// @Security BearerAuth
// @Param id query string true "product id"
// @Success 200 {object} dto.APISuccessString
// @Router /products [put]
func (h *ProductHandler) Report(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	if err := h.svc.Report(ctx.UserContext(), caller.Email, ctx.Query("id")); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "product reported")
}

// @Summary Clear a report
// @Tags Moderation
// @Security BearerAuth
// @Param id query string true "product id"
// @Success 200 {object} dto.APISuccessString
// @Router /products/unreport [put]
func (h *ProductHandler) Unreport(ctx *fiber.Ctx) error {
	admin, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	if err := h.svc.Unreport(ctx.UserContext(), admin.Email, ctx.Query("id")); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "report cleared")
}

// @Summary List reported products
// @Tags Moderation
// @Security BearerAuth
// @Success 200 {object} dto.APISuccessAny
// @Router /reportedProducts [get]
func (h *ProductHandler) ListReported(ctx *fiber.Ctx) error {
	products, err := h.svc.ListReported(ctx.UserContext())
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, products)
}

// @Summary Delete a reported product
// @Tags Moderation
// @Security BearerAuth
// @Param id query string true "product id"
// @Success 200 {object} dto.APISuccessString
// @Failure 409 {object} dto.APIError
// @Router /reportedProducts [delete]
func (h *ProductHandler) DeleteReported(ctx *fiber.Ctx) error {
	admin, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	if err := h.svc.DeleteReported(ctx.UserContext(), admin.Email, ctx.Query("id")); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "product deleted")
}
