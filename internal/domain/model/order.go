package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// 確定済み注文。金額内訳と配送先・顧客情報は確定時点のスナップショット。
// total = subtotal + tax + shipping_cost - discount を必ず満たす。
type Order struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string      `gorm:"type:varchar(50);uniqueIndex:uq_orders_order_number;not null" json:"order_number"`
	UserID      int64       `gorm:"not null;index" json:"user_id"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	PaymentStatus    PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	PaymentMethod    string        `gorm:"type:varchar(50);not null;default:'stripe'" json:"payment_method"`
	PaymentSessionID string        `gorm:"type:varchar(255);uniqueIndex:uq_orders_payment_session_id" json:"-"`
	PaymentIntentID  string        `gorm:"type:varchar(255);index" json:"-"`

	Subtotal     int64 `gorm:"not null" json:"subtotal"`
	Tax          int64 `gorm:"not null;default:0" json:"tax"`
	ShippingCost int64 `gorm:"not null;default:0" json:"shipping_cost"`
	Discount     int64 `gorm:"not null;default:0" json:"discount"`
	Total        int64 `gorm:"not null" json:"total"`

	// 配送先スナップショット
	ShippingAddress    string `gorm:"type:text;not null" json:"shipping_address"`
	ShippingCity       string `gorm:"type:varchar(100);not null" json:"shipping_city"`
	ShippingState      string `gorm:"type:varchar(100);not null" json:"shipping_state"`
	ShippingPostalCode string `gorm:"type:varchar(20);not null" json:"shipping_postal_code"`
	ShippingCountry    string `gorm:"type:varchar(100);not null;default:'USA'" json:"shipping_country"`

	// 顧客スナップショット（決済イベントのcustomer_detailsから）
	CustomerName  string `gorm:"type:varchar(200);not null" json:"customer_name"`
	CustomerEmail string `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerPhone string `gorm:"type:varchar(20)" json:"customer_phone"`

	TrackingNumber string     `gorm:"type:varchar(100)" json:"tracking_number"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
