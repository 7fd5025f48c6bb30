package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CartUsecase struct {
	cartItems repo.CartItemRepository
	products  repo.ProductRepository
}

// DI
func NewCartUsecase(cartItems repo.CartItemRepository, products repo.ProductRepository) *CartUsecase {
	return &CartUsecase{cartItems: cartItems, products: products}
}

type CartLineOutput struct {
	ItemID      int64  `json:"item_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	ImageURL    string `json:"image_url"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int64  `json:"quantity"`
	LineTotal   int64  `json:"line_total"`
	InStock     bool   `json:"in_stock"`
}

type CartOutput struct {
	Items  []CartLineOutput `json:"items"`
	Totals Totals           `json:"totals"`
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	lines, err := loadCartLines(ctx, u.cartItems, u.products, userID, false)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]CartLineOutput, 0, len(lines))
	priced := make([]PricedLine, 0, len(lines))
	for _, l := range lines {
		if l.Product.Status != model.ProductStatusActive {
			continue
		}
		outs = append(outs, CartLineOutput{
			ItemID:      l.Item.ID,
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			ImageURL:    l.Product.ImageURL,
			UnitPrice:   l.Product.Price,
			Quantity:    l.Item.Quantity,
			LineTotal:   l.Product.Price * l.Item.Quantity,
			InStock:     l.Product.Stock >= l.Item.Quantity,
		})
		priced = append(priced, PricedLine{UnitPrice: l.Product.Price, Quantity: l.Item.Quantity})
	}

	//この時点のプレビュー。確定金額はセッション作成時に再計算する。
	return CartOutput{Items: outs, Totals: ComputeTotals(priced)}, nil
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 || in.Quantity <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product or quantity")
	}

	p, err := u.products.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.Status != model.ProductStatusActive {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "product is not available")
	}
	if p.Stock < in.Quantity {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "not enough stock")
	}

	if err := u.cartItems.UpsertByUserAndProduct(ctx, userID, in.ProductID, in.Quantity); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, userID)
}

type UpdateCartItemInput struct {
	Quantity int64
}

func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, itemID int64, in UpdateCartItemInput) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 || in.Quantity <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	item, err := u.cartItems.FindByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//所有チェック（他人の明細は「存在しない扱い」）
	if item.UserID != userID {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItems.UpdateQuantity(ctx, itemID, in.Quantity); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, userID)
}

func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID int64, itemID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := u.cartItems.FindByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if item.UserID != userID {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItems.DeleteByID(ctx, itemID); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, userID)
}
