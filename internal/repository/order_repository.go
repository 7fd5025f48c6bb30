package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page          int
	Limit         int
	Status        string
	PaymentStatus string
	UserID        *int64
	From          *time.Time
	To            *time.Time
}

// ステータス遷移の更新内容。タイムスタンプは遷移先に応じて呼び出し側が詰める。
type OrderStatusUpdate struct {
	Status         model.OrderStatus
	TrackingNumber string
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)

	// Createは一意制約違反をErrDuplicateSession / ErrDuplicateOrderNumberに分類して返す。
	Create(ctx context.Context, order model.Order) (int64, error)

	// 同じ決済セッションで既に注文が作られているか（冪等チェック）
	FindByPaymentSessionID(ctx context.Context, sessionID string) (model.Order, bool, error)

	UpdateStatus(ctx context.Context, orderID int64, upd OrderStatusUpdate) error

	// 管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
