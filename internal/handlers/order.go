package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/undersea/storefront/internal/events"
	"github.com/undersea/storefront/internal/logging"
	"github.com/undersea/storefront/internal/middleware/auth"
	"github.com/undersea/storefront/internal/service"
	"github.com/undersea/storefront/internal/transport"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Producer *events.Producer
}

func (h *OrderHandler) publish(c echo.Context, key string, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicOrderEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_error", "error", err)
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req transport.CreateOrderRequest
	// Malformed JSON counts as an empty payload, like the storefront
	// has always been answered.
	_ = c.Bind(&req)

	orderID, err := h.Svc.Create(c.Request().Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemsRequired):
			return respondError(c, http.StatusBadRequest, "Items are required")
		case errors.Is(err, service.ErrItemsInvalid):
			return respondError(c, http.StatusBadRequest, "Items are invalid")
		default:
			return respondErrorDetails(c, http.StatusBadRequest, "Could not create order", err.Error())
		}
	}

	h.publish(c, orderID, map[string]interface{}{
		"type":    "order_created",
		"orderId": orderID,
		"userId":  userID,
	})

	return respondOK(c, echo.Map{"orderId": orderID})
}

func (h *OrderHandler) ConfirmOrder(c echo.Context) error {
	var req transport.OrderIDRequest
	_ = c.Bind(&req)

	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return respondError(c, http.StatusBadRequest, "orderId is required")
	}

	if err := h.Svc.Confirm(c.Request().Context(), orderID); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return respondError(c, http.StatusNotFound, "Order not found")
		case errors.Is(err, service.ErrNoItems):
			return respondError(c, http.StatusBadRequest, "Order has no items")
		case errors.Is(err, service.ErrInvalidItem):
			return respondError(c, http.StatusBadRequest, "Invalid order item")
		case errors.Is(err, service.ErrInventoryNotFound):
			return respondError(c, http.StatusBadRequest, "Inventory item not found")
		case errors.Is(err, service.ErrInsufficientStock):
			return respondError(c, http.StatusBadRequest, "Insufficient stock")
		default:
			return respondErrorDetails(c, http.StatusBadRequest, "Could not confirm order", err.Error())
		}
	}

	h.publish(c, orderID, map[string]interface{}{
		"type":    "order_confirmed",
		"orderId": orderID,
	})

	return respondOK(c, nil)
}

func (h *OrderHandler) MarkUnconfirmed(c echo.Context) error {
	var req transport.OrderIDRequest
	_ = c.Bind(&req)

	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return respondError(c, http.StatusBadRequest, "orderId is required")
	}

	if err := h.Svc.Unconfirm(c.Request().Context(), orderID); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return respondError(c, http.StatusNotFound, "Order not found")
		case errors.Is(err, service.ErrAlreadyPaid):
			return respondError(c, http.StatusBadRequest, "Order is already confirmed")
		default:
			return respondErrorDetails(c, http.StatusBadRequest, "Could not update order", err.Error())
		}
	}

	h.publish(c, orderID, map[string]interface{}{
		"type":    "order_unconfirmed",
		"orderId": orderID,
	})

	return respondOK(c, nil)
}
