package models

// OrderStatus is a closed enumeration. The stored values stay in
// Spanish because the admin frontend renders them verbatim.
type OrderStatus string

const (
	StatusPending OrderStatus = "pendiente"
	StatusPaid    OrderStatus = "pagado"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending: {StatusPaid: true},
	StatusPaid:    {StatusPending: true},
}

// CanTransition reports whether an order may move from one status to
// another. Confirming never restores stock on the way back, which is
// why paid->pending exists but carries no inventory side effects.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

func (s OrderStatus) Valid() bool {
	return s == StatusPending || s == StatusPaid
}
