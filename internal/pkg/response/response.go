// Package response renders the JSON envelope every endpoint replies
// with. Success replies carry a message and payload; failures carry
// only the error string, so clients branch on the success flag alone.
package response

import "github.com/gofiber/fiber/v2"

// Envelope is the wire shape of every reply.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func reply(c *fiber.Ctx, status int, env Envelope) error {
	return c.Status(status).JSON(env)
}

// Success replies 200 with a message and payload
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return reply(c, fiber.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created replies 201 for a newly created resource
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return reply(c, fiber.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Error replies with the given status and error message
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return reply(c, statusCode, Envelope{Success: false, Error: message})
}

// BadRequest replies 400
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized replies 401
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden replies 403
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound replies 404
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict replies 409 for duplicate or already-claimed resources
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// InternalServerError replies 500
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}
