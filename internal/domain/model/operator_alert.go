package model

import "time"

type AlertType string

const (
	// 決済確定時に在庫が足りず0でクランプした（要手動調整）
	AlertTypeStockUnderflow AlertType = "STOCK_UNDERFLOW"
	// イベントの金額がセッション作成時の控えと一致しない（要調査）
	AlertTypeAmountMismatch AlertType = "AMOUNT_MISMATCH"
	// 決済は完了しているのに確定時点のカートが空（返金などの判断が必要）
	AlertTypeEmptyCart AlertType = "EMPTY_CART_ON_CONFIRM"
)

// オペレーター向けの要対応記録。
type OperatorAlert struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Type       AlertType `gorm:"type:varchar(30);not null;index" json:"type"`
	SessionID  string    `gorm:"type:varchar(255);index" json:"session_id"`
	OrderID    *int64    `gorm:"index" json:"order_id,omitempty"`
	ProductID  *int64    `gorm:"index" json:"product_id,omitempty"`
	Detail     string    `gorm:"type:text;not null" json:"detail"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
