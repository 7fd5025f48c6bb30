package repository

import (
	"context"

	"app/internal/domain/model"
)

type OperatorAlertRepository interface {
	Create(ctx context.Context, alert model.OperatorAlert) error
	ListUnresolved(ctx context.Context, limit int) ([]model.OperatorAlert, error)
}
