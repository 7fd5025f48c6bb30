package repository

import (
	"context"

	"app/internal/domain/model"
)

// セッション作成時の金額控えの保存・照会。
type CheckoutSessionRepository interface {
	Create(ctx context.Context, cs model.CheckoutSession) error
	FindBySessionID(ctx context.Context, sessionID string) (model.CheckoutSession, bool, error)
	MarkCompleted(ctx context.Context, sessionID string) error
}
