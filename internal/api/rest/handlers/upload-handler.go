package handlers

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/api/rest/middleware"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper/utils"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/services"
	pkgutils "github.com/TajwarSaiyeed/laptop-zone-server/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

const maxImageSize = 5 * 1024 * 1024 // 5MB

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

type UploadResponse struct {
	URL string `json:"url"`
}

type UploadHandler struct {
	svc  services.MarketplaceService
	auth helper.Auth
}

func NewUploadHandler(svc services.MarketplaceService, auth helper.Auth) *UploadHandler {
	return &UploadHandler{svc: svc, auth: auth}
}

func (h *UploadHandler) SetupRoutes(app *fiber.App, guards middleware.Guards) {
	app.Post("/products/:id/image", guards.Seller, h.UploadProductImage)
}

// @Summary Upload a product photo
// @Tags Products
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "product id"
// @Param file formData file true "jpg, png or webp, at most 5MB"
// @Success 200 {object} dto.APISuccessAny
// @Failure 400 {object} dto.APIError
// @Failure 403 {object} dto.APIError
// @Failure 404 {object} dto.APIError
// @Router /products/{id}/image [post]
func (h *UploadHandler) UploadProductImage(ctx *fiber.Ctx) error {
	seller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "only jpg/jpeg/png/webp allowed")
	}
	if file.Size > maxImageSize {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "file too large (max 5MB)")
	}

	f, err := file.Open()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "cannot open uploaded file")
	}
	defer f.Close()

	data, err := pkgutils.ReadAllLimit(f, maxImageSize)
	if err != nil {
		if errors.Is(err, pkgutils.ErrTooLarge) {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "file too large (max 5MB)")
		}
		return utils.ResponseFromError(ctx, err)
	}

	url, err := h.svc.UploadProductImage(ctx.UserContext(), seller.Email, ctx.Params("id"), data)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, UploadResponse{URL: url})
}
