package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func respondError(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

func respondErrorDetails(c echo.Context, status int, msg, details string) error {
	return c.JSON(status, echo.Map{"error": msg, "details": details})
}

func respondOK(c echo.Context, fields echo.Map) error {
	body := echo.Map{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	return c.JSON(http.StatusOK, body)
}
