package usecase

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// カート明細と現在の商品状態の組
type CartLine struct {
	Item    model.CartItem
	Product model.Product
}

// loadCartLinesはユーザーのカートを現在の商品情報と結合して返す（読み取りのみ）。
// lockForUpdate=trueのときは商品行をFOR UPDATEで読む。確定トランザクション内専用。
func loadCartLines(
	ctx context.Context,
	cartItems repo.CartItemRepository,
	products repo.ProductRepository,
	userID int64,
	lockForUpdate bool,
) ([]CartLine, error) {
	items, err := cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		var p model.Product
		if lockForUpdate {
			p, err = products.FindByIDForUpdate(ctx, it.ProductID)
		} else {
			p, err = products.FindByID(ctx, it.ProductID)
		}
		if err != nil {
			return nil, err
		}

		lines = append(lines, CartLine{Item: it, Product: p})
	}

	return lines, nil
}
