package handler

import "github.com/gofiber/fiber/v2"

// Response is the uniform body shape of every endpoint.
type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// respond writes the uniform envelope. A nil payload becomes an empty
// object rather than null.
func respond(c *fiber.Ctx, status int, message string, data any) error {
	if data == nil {
		data = fiber.Map{}
	}
	return c.Status(status).JSON(Response{
		Message: message,
		Data:    data,
	})
}
