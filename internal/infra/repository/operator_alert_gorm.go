package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type OperatorAlertGormRepository struct {
	db *gorm.DB
}

func NewOperatorAlertGormRepository(db *gorm.DB) *OperatorAlertGormRepository {
	return &OperatorAlertGormRepository{db: db}
}

func (r *OperatorAlertGormRepository) Create(ctx context.Context, alert model.OperatorAlert) error {
	return r.db.WithContext(ctx).Create(&alert).Error
}

func (r *OperatorAlertGormRepository) ListUnresolved(ctx context.Context, limit int) ([]model.OperatorAlert, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var alerts []model.OperatorAlert
	if err := r.db.WithContext(ctx).
		Where("resolved_at IS NULL").
		Order("id desc").
		Limit(limit).
		Find(&alerts).Error; err != nil {
		return []model.OperatorAlert{}, err
	}
	return alerts, nil
}
