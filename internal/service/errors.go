package service

import (
	"errors"

	"github.com/undersea/storefront/internal/repo"
)

var (
	ErrItemsRequired = errors.New("items required")       // 400
	ErrItemsInvalid  = errors.New("items invalid")        // 400
	ErrOrderNotFound = errors.New("order not found")      // 404
	ErrNoItems       = errors.New("order has no items")   // 400
	ErrInvalidItem   = errors.New("invalid order item")   // 400
	ErrAlreadyPaid   = errors.New("already confirmed")    // 400
	ErrInvalidToken  = errors.New("invalid token")        // 400, covers used and expired too
	ErrNotConfigured = errors.New("server misconfigured") // 500

	ErrInventoryNotFound = repo.ErrSlotNotFound
	ErrInsufficientStock = repo.ErrInsufficientStock
)
