package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OrderStatus values. Transitions are monotonic except cancellation; the
// legal successor set lives in the service layer.
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pendiente_pago"
	OrderStatusPaid           OrderStatus = "pagado"
	OrderStatusShipped        OrderStatus = "enviado"
	OrderStatusDelivered      OrderStatus = "entregado"
	OrderStatusCancelled      OrderStatus = "cancelado"
)

// Valid reports whether s is a recognized status value.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentStripe         PaymentMethod = "stripe"
	PaymentCashOnDelivery PaymentMethod = "efectivo_cod"
	PaymentCashInStore    PaymentMethod = "efectivo_sucursal"
	PaymentCardInStore    PaymentMethod = "tarjeta_sucursal"
)

type OrderOrigin string

const (
	OriginBot   OrderOrigin = "bot"
	OriginStore OrderOrigin = "sucursal"
	OriginPhone OrderOrigin = "telefono"
	OriginWeb   OrderOrigin = "web"
)

// OrderItem is one line of an order, denormalized into the items JSON column.
type OrderItem struct {
	Size        string  `json:"medida"`
	Brand       string  `json:"marca"`
	Description string  `json:"descripcion"`
	Quantity    int     `json:"cantidad"`
	UnitPrice   float64 `json:"precio_unitario"`
}

// OrderItems stores the line items as a JSON column.
type OrderItems []OrderItem

func (items OrderItems) Value() (driver.Value, error) {
	return json.Marshal(items)
}

func (items *OrderItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	case nil:
		*items = nil
		return nil
	}
	return fmt.Errorf("unsupported items column type %T", value)
}

// Order is a commercial transaction. Rows are never deleted; terminal states
// are entregado and cancelado.
type Order struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SessionID *string `json:"session_id" gorm:"column:sesion_id;type:varchar(36);index:idx_order_session"`

	Phone           string `json:"telefono" gorm:"column:telefono;type:varchar(32);index:idx_order_phone;not null"`
	CustomerName    string `json:"nombre_cliente" gorm:"column:nombre_cliente;type:varchar(128);not null"`
	CustomerEmail   string `json:"email_cliente" gorm:"column:email_cliente;type:varchar(128)"`
	ShippingAddress string `json:"direccion_envio" gorm:"column:direccion_envio;type:text"`

	Items        OrderItems `json:"items" gorm:"type:jsonb"`
	Subtotal     float64    `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	ShippingCost float64    `json:"costo_envio" gorm:"column:costo_envio;type:decimal(10,2);not null"`
	// Invariant: Total = Subtotal + ShippingCost. No tax line at this layer.
	Total float64 `json:"total" gorm:"type:decimal(10,2);not null"`

	Status        OrderStatus   `json:"estado" gorm:"column:estado;type:varchar(24);index;not null;default:'pendiente_pago'"`
	PaymentMethod PaymentMethod `json:"metodo_pago" gorm:"column:metodo_pago;type:varchar(24)"`
	Origin        OrderOrigin   `json:"origen" gorm:"column:origen;type:varchar(16);default:'bot'"`

	PaidAt      *time.Time `json:"fecha_pago" gorm:"column:fecha_pago;index"`
	ShippedAt   *time.Time `json:"fecha_envio" gorm:"column:fecha_envio"`
	DeliveredAt *time.Time `json:"fecha_entrega" gorm:"column:fecha_entrega"`

	Carrier        string `json:"carrier" gorm:"type:varchar(64)"`
	TrackingNumber string `json:"numero_guia" gorm:"column:numero_guia;type:varchar(64)"`
	Notes          string `json:"notas" gorm:"column:notas;type:text"`

	// Written by the external payment-link flow, read-only here.
	PaymentLinkID  string `json:"payment_link_id" gorm:"type:varchar(128)"`
	PaymentLinkURL string `json:"payment_link_url" gorm:"type:text"`
	PaymentIntent  string `json:"payment_intent_id" gorm:"type:varchar(128)"`

	CreatedAt time.Time `json:"created_at" gorm:"index;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (Order) TableName() string { return "pedidos" }
