package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CategoryUsecase struct {
	categories repo.CategoryRepository
}

func NewCategoryUsecase(categories repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categories: categories}
}

func (u *CategoryUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	items, err := u.categories.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

type CategoryInput struct {
	Name        string
	Description string
}

func (u *CategoryUsecase) CreateCategory(ctx context.Context, in CategoryInput) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	created, err := u.categories.Create(ctx, model.Category{
		Name:        name,
		Slug:        MakeSlug(name),
		Description: in.Description,
		Status:      model.CategoryStatusActive,
	})
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusConflict, "category already exists")
	}
	return created, nil
}

func (u *CategoryUsecase) RetireCategory(ctx context.Context, categoryID int64) error {
	if categoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	c, err := u.categories.FindByID(ctx, categoryID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	c.Status = model.CategoryStatusRetired
	if err := u.categories.Update(ctx, c); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
