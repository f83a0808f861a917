package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/undersea/storefront/internal/logging"
	"github.com/undersea/storefront/internal/models"
	"github.com/undersea/storefront/internal/repo"
	"github.com/undersea/storefront/internal/transport"
)

type OrderService struct {
	DB        *gorm.DB
	Orders    repo.OrderRepository
	Products  repo.ProductRepository
	Inventory repo.InventoryRepository
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		DB:        db,
		Orders:    repo.NewOrderRepository(db),
		Products:  repo.NewProductRepository(db),
		Inventory: repo.NewInventoryRepository(db),
	}
}

type cartLine struct {
	ProductID string
	Color     string
	Size      string
	Quantity  int
}

// normalizeItems coerces the two historical quantity spellings into one
// positive integer and drops lines with missing fields. A present
// finite cantidad is authoritative, zero included; quantity is only a
// fallback for payloads that never carried cantidad. Bad lines are
// filtered rather than failing the whole payload.
func normalizeItems(items []transport.CreateOrderItem) []cartLine {
	out := make([]cartLine, 0, len(items))
	for _, it := range items {
		var qty float64
		switch {
		case it.Cantidad != nil && !math.IsNaN(*it.Cantidad) && !math.IsInf(*it.Cantidad, 0):
			qty = *it.Cantidad
		case it.Quantity != nil:
			qty = *it.Quantity
		}
		line := cartLine{
			ProductID: strings.TrimSpace(it.ProductID),
			Color:     strings.TrimSpace(it.Color),
			Size:      strings.TrimSpace(it.Size),
		}
		if line.ProductID == "" || line.Color == "" || line.Size == "" {
			continue
		}
		if math.IsNaN(qty) || math.IsInf(qty, 0) || qty <= 0 || qty != math.Trunc(qty) {
			continue
		}
		line.Quantity = int(qty)
		out = append(out, line)
	}
	return out
}

// Create prices the cart server-side against the catalog and persists
// the order header with its line items in one transaction.
func (s *OrderService) Create(ctx context.Context, userID string, req transport.CreateOrderRequest) (string, error) {
	l := logging.FromContext(ctx).With("svc", "order.create", "user_id", userID)

	if len(req.Items) == 0 {
		return "", ErrItemsRequired
	}

	lines := normalizeItems(req.Items)
	if len(lines) == 0 {
		return "", ErrItemsInvalid
	}

	seen := make(map[string]bool, len(lines))
	productIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			productIDs = append(productIDs, line.ProductID)
		}
	}

	prices, err := s.Products.PricesByIDs(ctx, productIDs)
	if err != nil {
		l.Error("create_order_error", "reason", "could not load products", "error", err)
		return "", fmt.Errorf("could not load products: %w", err)
	}

	var total float64
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		price, ok := prices[line.ProductID]
		if !ok {
			// Product vanished between the cart and this request. The
			// line is kept at price zero so the failure is visible in
			// the order rather than silently dropped.
			l.Warn("create_order_missing_product", "product_id", line.ProductID)
			price = 0
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Color:     line.Color,
			Size:      line.Size,
			Quantity:  line.Quantity,
			UnitPrice: price,
		})
		total += price * float64(line.Quantity)
	}

	order := &models.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    models.StatusPending,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Orders.Create(ctx, order, items); err != nil {
		l.Error("create_order_error", "reason", "could not persist order", "error", err)
		return "", fmt.Errorf("could not create order: %w", err)
	}

	l.Info("create_order_success", "order_id", order.ID, "total", total)
	return order.ID, nil
}

// Confirm moves an order from pendiente to pagado while decrementing
// every line's inventory slot. All lookups, decrements and the status
// flip share one transaction: a short or missing slot rolls everything
// back. Confirming an already paid order is a no-op success.
func (s *OrderService) Confirm(ctx context.Context, orderID string) error {
	l := logging.FromContext(ctx).With("svc", "order.confirm", "order_id", orderID)

	order, err := s.Orders.FindWithItems(ctx, orderID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("confirm_order_error", "reason", "order lookup failed", "error", err)
		}
		return ErrOrderNotFound
	}

	if order.Status == models.StatusPaid {
		l.Info("confirm_order_noop", "reason", "already paid")
		return nil
	}

	if len(order.Items) == 0 {
		return ErrNoItems
	}

	for _, it := range order.Items {
		if strings.TrimSpace(it.ProductID) == "" ||
			strings.TrimSpace(it.Color) == "" ||
			strings.TrimSpace(it.Size) == "" ||
			it.Quantity <= 0 {
			return ErrInvalidItem
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range order.Items {
			if err := s.Inventory.Decrement(ctx, tx, it.ProductID, it.Color, it.Size, it.Quantity); err != nil {
				return err
			}
		}
		return s.Orders.SetStatus(ctx, tx, order.ID, models.StatusPending, models.StatusPaid)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A concurrent confirmation won the status flip; our
			// decrements rolled back, theirs stand. Same end state.
			l.Info("confirm_order_noop", "reason", "lost confirmation race")
			return nil
		}
		if errors.Is(err, ErrInventoryNotFound) || errors.Is(err, ErrInsufficientStock) {
			l.Warn("confirm_order_rejected", "error", err)
			return err
		}
		l.Error("confirm_order_error", "error", err)
		return fmt.Errorf("could not confirm order: %w", err)
	}

	l.Info("confirm_order_success")
	return nil
}

// Unconfirm writes an order back to pendiente. It refuses orders that
// are currently paid: reversing those would leave already-decremented
// inventory behind, so the asymmetry is deliberate.
func (s *OrderService) Unconfirm(ctx context.Context, orderID string) error {
	l := logging.FromContext(ctx).With("svc", "order.unconfirm", "order_id", orderID)

	order, err := s.Orders.FindWithItems(ctx, orderID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("unconfirm_order_error", "reason", "order lookup failed", "error", err)
		}
		return ErrOrderNotFound
	}

	if order.Status == models.StatusPaid {
		return ErrAlreadyPaid
	}

	if err := s.Orders.MarkPending(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Confirmed in between; refusing matches the paid guard.
			return ErrAlreadyPaid
		}
		l.Error("unconfirm_order_error", "error", err)
		return fmt.Errorf("could not update order: %w", err)
	}

	l.Info("unconfirm_order_success")
	return nil
}
