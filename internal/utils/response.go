package utils

import "github.com/gofiber/fiber/v2"

// Respond writes data as JSON with the given status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success writes data as a 200 JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return Respond(c, status, fiber.Map{"error": message})
}

// BadRequest writes a 400 error response.
func BadRequest(c *fiber.Ctx, message string) error {
	return errorJSON(c, fiber.StatusBadRequest, message)
}

// Unauthorized writes a 401 error response.
func Unauthorized(c *fiber.Ctx, message string) error {
	return errorJSON(c, fiber.StatusUnauthorized, message)
}

// Forbidden writes a 403 error response.
func Forbidden(c *fiber.Ctx, message string) error {
	return errorJSON(c, fiber.StatusForbidden, message)
}

// NotFound writes a 404 error response.
func NotFound(c *fiber.Ctx, message string) error {
	return errorJSON(c, fiber.StatusNotFound, message)
}

// InternalError writes a 500 error response.
func InternalError(c *fiber.Ctx, message string) error {
	return errorJSON(c, fiber.StatusInternalServerError, message)
}
