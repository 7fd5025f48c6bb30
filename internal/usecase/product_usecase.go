package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ProductUsecase struct {
	products   repo.ProductRepository
	categories repo.CategoryRepository
}

// DI
func NewProductUsecase(products repo.ProductRepository, categories repo.CategoryRepository) *ProductUsecase {
	return &ProductUsecase{products: products, categories: categories}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page       int
	Limit      int
	CategoryID *int64
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.products.ListActive(ctx, repo.ProductListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		CategoryID: in.CategoryID,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//引退済みは公開側では見せない
	if p.Status != model.ProductStatusActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return p, nil
}

type AdminProductInput struct {
	Name             string
	SKU              string
	Description      string
	ShortDescription string
	Price            int64
	Stock            int64
	CategoryID       int64
	ImageURL         string
}

func (in AdminProductInput) validate() error {
	if len(strings.TrimSpace(in.Name)) < 3 {
		return NewHTTPError(http.StatusBadRequest, "name must be at least 3 characters")
	}
	if strings.TrimSpace(in.SKU) == "" {
		return NewHTTPError(http.StatusBadRequest, "sku is required")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if in.CategoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid category_id")
	}
	return nil
}

// 管理者の商品登録。スラッグは保存前にここで確定する。
func (u *ProductUsecase) CreateProduct(ctx context.Context, in AdminProductInput) (model.Product, error) {
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	if _, err := u.categories.FindByID(ctx, in.CategoryID); err != nil {
		if err == repo.ErrNotFound {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "category not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p := model.Product{
		Name:             strings.TrimSpace(in.Name),
		Slug:             MakeSlug(in.Name),
		SKU:              strings.TrimSpace(in.SKU),
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		Price:            in.Price,
		Stock:            in.Stock,
		CategoryID:       in.CategoryID,
		ImageURL:         in.ImageURL,
		Status:           model.ProductStatusActive,
	}

	created, err := u.products.Create(ctx, p)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusConflict, "slug or sku already exists")
	}
	return created, nil
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, productID int64, in AdminProductInput) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	existing, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	existing.Name = strings.TrimSpace(in.Name)
	existing.Slug = MakeSlug(in.Name)
	existing.SKU = strings.TrimSpace(in.SKU)
	existing.Description = in.Description
	existing.ShortDescription = in.ShortDescription
	existing.Price = in.Price
	existing.Stock = in.Stock
	existing.CategoryID = in.CategoryID
	existing.ImageURL = in.ImageURL

	if err := u.products.Update(ctx, existing); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.products.FindByID(ctx, productID)
}

// 商品の引退。削除はしない（注文履歴が参照している）。
func (u *ProductUsecase) RetireProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := u.products.UpdateStatus(ctx, productID, model.ProductStatusRetired); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
