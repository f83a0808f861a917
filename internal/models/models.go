package models

import (
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "cliente"
)

type User struct {
	ID           string `gorm:"primaryKey"              json:"id"`
	Email        string `gorm:"uniqueIndex;not null"    json:"email"`
	Name         string `gorm:"column:nombre"           json:"nombre"`
	Role         string `gorm:"column:rol;not null"     json:"rol"`
	PasswordHash string `gorm:"not null"                json:"-"`
}

func (User) TableName() string { return "usuarios" }

type Product struct {
	ID    string  `gorm:"primaryKey"                json:"id"`
	Name  string  `gorm:"column:nombre;not null"    json:"nombre"`
	Price float64 `gorm:"column:precio;not null"    json:"precio"`
}

func (Product) TableName() string { return "productos" }

type Order struct {
	ID        string      `gorm:"primaryKey"                       json:"id"`
	UserID    string      `gorm:"column:usuario_id;index;not null" json:"usuario_id"`
	Status    OrderStatus `gorm:"column:estado;not null"           json:"estado"`
	Total     float64     `gorm:"not null"                         json:"total"`
	CreatedAt time.Time   `gorm:"column:fecha;not null"            json:"fecha"`

	Items []OrderItem `gorm:"foreignKey:OrderID;references:ID" json:"orden_items,omitempty"`
}

func (Order) TableName() string { return "ordenes" }

// OrderItem captures the unit price at creation time; it is never
// re-read from the catalog afterwards.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"                                 json:"id"`
	OrderID   string  `gorm:"column:orden_id;index;not null"             json:"orden_id"`
	ProductID string  `gorm:"column:producto_id;not null"                json:"producto_id"`
	Color     string  `gorm:"not null"                                   json:"color"`
	Size      string  `gorm:"column:talla;not null"                      json:"talla"`
	Quantity  int     `gorm:"column:cantidad;not null;check:cantidad>0"  json:"cantidad"`
	UnitPrice float64 `gorm:"column:precio;not null"                     json:"precio"`
}

func (OrderItem) TableName() string { return "orden_items" }

// InventoryItem is the stock count for one (product, color, size) slot.
type InventoryItem struct {
	ID        uint   `gorm:"primaryKey"                                                  json:"id"`
	ProductID string `gorm:"column:producto_id;uniqueIndex:idx_inventario_slot;not null" json:"producto_id"`
	Color     string `gorm:"uniqueIndex:idx_inventario_slot;not null"                    json:"color"`
	Size      string `gorm:"column:talla;uniqueIndex:idx_inventario_slot;not null"       json:"talla"`
	Stock     int    `gorm:"not null;check:stock>=0"                                     json:"stock"`
}

func (InventoryItem) TableName() string { return "inventario_productos" }

// PasswordReset stores only the SHA-256 hex of the token secret.
// Expired or used rows are rejected, never deleted.
type PasswordReset struct {
	ID        uint      `gorm:"primaryKey"                          json:"id"`
	UserID    string    `gorm:"column:user_id;index;not null"       json:"user_id"`
	TokenHash string    `gorm:"column:token;uniqueIndex;not null"   json:"-"`
	ExpiresAt time.Time `gorm:"not null"                            json:"expires_at"`
	Used      bool      `gorm:"not null;default:false"              json:"used"`
	CreatedAt time.Time `gorm:"autoCreateTime"                      json:"created_at"`
}

func (PasswordReset) TableName() string { return "password_resets" }

type ProductImage struct {
	ID        uint   `gorm:"primaryKey"                          json:"id"`
	ProductID string `gorm:"column:producto_id;index;not null"   json:"producto_id"`
	URL       string `gorm:"column:url;not null"                 json:"url"`
}

func (ProductImage) TableName() string { return "imagenes_productos_colores" }
