package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CheckoutSessionGormRepository struct {
	db *gorm.DB
}

func NewCheckoutSessionGormRepository(db *gorm.DB) *CheckoutSessionGormRepository {
	return &CheckoutSessionGormRepository{db: db}
}

func (r *CheckoutSessionGormRepository) Create(ctx context.Context, cs model.CheckoutSession) error {
	return r.db.WithContext(ctx).Create(&cs).Error
}

func (r *CheckoutSessionGormRepository) FindBySessionID(ctx context.Context, sessionID string) (model.CheckoutSession, bool, error) {
	var cs model.CheckoutSession
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&cs).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CheckoutSession{}, false, nil
	}
	if err != nil {
		return model.CheckoutSession{}, false, err
	}
	return cs, true, nil
}

func (r *CheckoutSessionGormRepository) MarkCompleted(ctx context.Context, sessionID string) error {
	res := r.db.WithContext(ctx).
		Model(&model.CheckoutSession{}).
		Where("session_id = ?", sessionID).
		Update("status", model.CheckoutSessionStatusCompleted)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
