package model

import "time"

type CheckoutSessionStatus string

const (
	CheckoutSessionStatusPending   CheckoutSessionStatus = "PENDING"
	CheckoutSessionStatusCompleted CheckoutSessionStatus = "COMPLETED"
)

// セッション作成時に計算した金額の控え。
// Webhook確定時にイベントのmetadataと突き合わせて改ざんを検出する。
type CheckoutSession struct {
	ID        int64                 `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string                `gorm:"type:varchar(255);uniqueIndex:uq_checkout_sessions_session_id;not null" json:"session_id"`
	UserID    int64                 `gorm:"not null;index" json:"user_id"`
	Status    CheckoutSessionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	Subtotal     int64 `gorm:"not null" json:"subtotal"`
	Tax          int64 `gorm:"not null" json:"tax"`
	ShippingCost int64 `gorm:"not null" json:"shipping_cost"`
	Total        int64 `gorm:"not null" json:"total"`

	ShippingAddress    string `gorm:"type:text;not null" json:"shipping_address"`
	ShippingCity       string `gorm:"type:varchar(100);not null" json:"shipping_city"`
	ShippingState      string `gorm:"type:varchar(100);not null" json:"shipping_state"`
	ShippingPostalCode string `gorm:"type:varchar(20);not null" json:"shipping_postal_code"`
	ShippingCountry    string `gorm:"type:varchar(100);not null;default:'USA'" json:"shipping_country"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
