package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/undersea/storefront/internal/service"
	"github.com/undersea/storefront/internal/transport"
)

const minPasswordLength = 6

type ResetHandler struct {
	Svc *service.PasswordResetService
}

func (h *ResetHandler) RequestReset(c echo.Context) error {
	var req transport.RequestResetRequest
	_ = c.Bind(&req)

	if strings.TrimSpace(req.Email) == "" {
		return respondError(c, http.StatusBadRequest, "Email is required")
	}

	if err := h.Svc.Request(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrNotConfigured) {
			return respondError(c, http.StatusInternalServerError, "Server is not configured")
		}
		// Anything else still answers ok; see the service.
	}

	return respondOK(c, nil)
}

func (h *ResetHandler) ResetPassword(c echo.Context) error {
	var req transport.ResetPasswordRequest
	_ = c.Bind(&req)

	token := strings.TrimSpace(req.Token)
	if token == "" {
		return respondError(c, http.StatusBadRequest, "Token is required")
	}
	if len(req.NewPassword) < minPasswordLength {
		return respondError(c, http.StatusBadRequest, "Password must be at least 6 characters")
	}

	if err := h.Svc.Reset(c.Request().Context(), token, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return respondError(c, http.StatusBadRequest, "Invalid or expired token")
		}
		return respondError(c, http.StatusBadRequest, "Could not update password")
	}

	return respondOK(c, nil)
}
