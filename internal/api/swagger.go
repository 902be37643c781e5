package api

import (
	docs "github.com/TajwarSaiyeed/laptop-zone-server/docs"
	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

// RegisterSwagger serves the API docs. Host and scheme are taken from the
// request so the "try it out" calls hit the same deployment.
func RegisterSwagger(app *fiber.App) {
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		docs.SwaggerInfo.Host = c.Hostname()
		docs.SwaggerInfo.Schemes = []string{c.Protocol()}
		return c.Next()
	}, fiberSwagger.WrapHandler)
}
