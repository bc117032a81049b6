package handler

import "github.com/labstack/echo/v4"

// response is the envelope every endpoint answers with. The HTTP status code
// carries the category; Message is a short human-readable summary and Data
// holds the payload or null.
type response struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, response{Message: message, Data: data})
}
