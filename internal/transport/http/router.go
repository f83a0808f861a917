package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/undersea/storefront/internal/handlers"
	authmw "github.com/undersea/storefront/internal/middleware/auth"
)

type Deps struct {
	Gate    *authmw.Gate
	Order   *handlers.OrderHandler
	Reset   *handlers.ResetHandler
	Product *handlers.ProductHandler

	FrontendURL string
}

// AllowedOrigins is the CORS allow-list: the configured storefront
// origin plus the fixed local development hosts.
func AllowedOrigins(frontendURL string) []string {
	origins := []string{
		"http://localhost:5173",
		"http://localhost:5174",
		"http://127.0.0.1:5173",
		"http://127.0.0.1:5174",
	}
	if u := strings.TrimRight(strings.TrimSpace(frontendURL), "/"); u != "" {
		origins = append([]string{u}, origins...)
	}
	return origins
}

// errorHandler keeps echo's own refusals (404, 405, oversized bodies)
// in the same {error: ...} body shape the handlers answer with.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(status)
		}
	}

	_ = c.JSON(status, echo.Map{"error": msg})
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = errorHandler
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: AllowedOrigins(d.FrontendURL),
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
	}))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	fn := e.Group("/functions/v1")

	fn.POST("/create-order", d.Order.CreateOrder, d.Gate.RequireUser)
	fn.POST("/confirm-order", d.Order.ConfirmOrder, d.Gate.RequireAdmin)
	fn.POST("/mark-order-unconfirmed", d.Order.MarkUnconfirmed, d.Gate.RequireAdmin)
	fn.POST("/delete-product", d.Product.DeleteProduct, d.Gate.RequireAdmin)

	fn.POST("/request-password-reset", d.Reset.RequestReset)
	fn.POST("/reset-password-with-token", d.Reset.ResetPassword)
}
