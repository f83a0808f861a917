package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/undersea/storefront/internal/events"
	"github.com/undersea/storefront/internal/logging"
	"github.com/undersea/storefront/internal/service"
	"github.com/undersea/storefront/internal/transport"
)

type ProductHandler struct {
	Svc      *service.ProductService
	Producer *events.Producer
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	var req transport.DeleteProductRequest
	_ = c.Bind(&req)

	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		return respondError(c, http.StatusBadRequest, "Product ID is required")
	}

	if err := h.Svc.Delete(c.Request().Context(), productID); err != nil {
		return respondErrorDetails(c, http.StatusBadRequest, "Could not delete product", err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	event := map[string]interface{}{
		"type":      "product_deleted",
		"productId": productID,
	}
	if err := h.Producer.PublishEvent(ctx, events.TopicProductEvents, productID, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_error", "error", err)
	}

	return respondOK(c, nil)
}
