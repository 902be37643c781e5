package utils

import (
	"errors"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/gofiber/fiber/v2"
)

const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeNoSuchUser      = "NO_SUCH_USER"
	CodeConflict        = "CONFLICT"
	CodeAlreadySold     = "ALREADY_SOLD"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
	CodeInternal        = "INTERNAL_ERROR"
)

func ResponseError(ctx *fiber.Ctx, status int, code, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"errorCode": code,
		"message":   msg,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}

// StatusFor maps a domain error to its HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, CodeUnauthenticated
	case errors.Is(err, domain.ErrExpiredToken):
		return fiber.StatusForbidden, CodeTokenExpired
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusForbidden, CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, CodeForbidden
	case errors.Is(err, domain.ErrNoSuchUser):
		return fiber.StatusNotFound, CodeNoSuchUser
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrAlreadySold):
		return fiber.StatusConflict, CodeAlreadySold
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, CodeConflict
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, CodeInvalidInput
	case errors.Is(err, domain.ErrUnavailable):
		return fiber.StatusServiceUnavailable, CodeUnavailable
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return fe.Code, CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			return fe.Code, CodeInvalidInput
		case fiber.StatusMethodNotAllowed:
			return fe.Code, "METHOD_NOT_ALLOWED"
		}
		return fe.Code, CodeInternal
	}
	return fiber.StatusInternalServerError, CodeInternal
}

// ResponseFromError writes the {errorCode, message} body for err. Internal
// errors never leak their message.
func ResponseFromError(ctx *fiber.Ctx, err error) error {
	status, code := StatusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal server error"
	}
	return ResponseError(ctx, status, code, msg)
}
