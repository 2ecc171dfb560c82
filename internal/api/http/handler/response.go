package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/api/http/middleware"
)

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func noContent(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

func conflict(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msg})
}

// unprocessable reports a local validation failure with the offending field.
func unprocessable(c fiber.Ctx, field, msg string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error": msg,
		"field": field,
	})
}

// badGateway reports an upstream clinic API failure. Logged server-side with
// the request metadata since the console only shows the short message.
func badGateway(c fiber.Ctx, msg string) error {
	if meta, ok := middleware.MetaFromFiber(c); ok {
		slog.Warn("upstream failure",
			"request_id", meta.RequestID,
			"operator_id", meta.OperatorID,
			"path", c.Path(),
			"msg", msg,
		)
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": msg})
}

func internalError(c fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
