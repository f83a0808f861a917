package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	assert.True(t, CanTransition(StatusPending, StatusPaid))
	assert.True(t, CanTransition(StatusPaid, StatusPending))

	assert.False(t, CanTransition(StatusPending, StatusPending))
	assert.False(t, CanTransition(StatusPaid, StatusPaid))
	assert.False(t, CanTransition(StatusPending, "enviado"))
	assert.False(t, CanTransition("enviado", StatusPaid))
}

func TestOrderStatusValid(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusPaid.Valid())
	assert.False(t, OrderStatus("pagado ").Valid())
	assert.False(t, OrderStatus("").Valid())
}
