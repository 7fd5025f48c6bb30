package usecase

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"app/internal/domain/model"
	"app/internal/payment"
	repo "app/internal/repository"

	"go.uber.org/zap"
)

// 決済プロセッサへの外向きの約束。実装はinternal/payment。
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params payment.CheckoutSessionParams) (payment.Session, error)
}

type CheckoutUsecase struct {
	cartItems  repo.CartItemRepository
	products   repo.ProductRepository
	users      repo.UserRepository
	checkouts  repo.CheckoutSessionRepository
	gateway    PaymentGateway
	successURL string
	cancelURL  string
	logger     *zap.Logger
}

// DI
func NewCheckoutUsecase(
	cartItems repo.CartItemRepository,
	products repo.ProductRepository,
	users repo.UserRepository,
	checkouts repo.CheckoutSessionRepository,
	gateway PaymentGateway,
	successURL string,
	cancelURL string,
	logger *zap.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		cartItems:  cartItems,
		products:   products,
		users:      users,
		checkouts:  checkouts,
		gateway:    gateway,
		successURL: successURL,
		cancelURL:  cancelURL,
		logger:     logger,
	}
}

type CreateCheckoutInput struct {
	ShippingAddress string
	City            string
	State           string
	PostalCode      string
	Country         string
}

type CreateCheckoutOutput struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	Totals    Totals `json:"totals"`
}

// CreateSessionはカートから決済セッションを作る。
// ローカルのカート・在庫・注文は一切変更しない（確定はWebhook側）。
// 控えとしてCheckoutSessionだけを保存する。
func (u *CheckoutUsecase) CreateSession(ctx context.Context, userID int64, in CreateCheckoutInput) (CreateCheckoutOutput, error) {
	if userID <= 0 {
		return CreateCheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//配送先4項目は必須
	if strings.TrimSpace(in.ShippingAddress) == "" ||
		strings.TrimSpace(in.City) == "" ||
		strings.TrimSpace(in.State) == "" ||
		strings.TrimSpace(in.PostalCode) == "" {
		return CreateCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "please provide complete shipping address")
	}
	country := strings.TrimSpace(in.Country)
	if country == "" {
		country = "USA"
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return CreateCheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return CreateCheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	all, err := loadCartLines(ctx, u.cartItems, u.products, userID, false)
	if err != nil {
		return CreateCheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//引退済み商品の明細は対象外
	lines := make([]CartLine, 0, len(all))
	for _, l := range all {
		if l.Product.Status == model.ProductStatusActive {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return CreateCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "your cart is empty")
	}

	//全明細の在庫を先に確認。1つでも足りなければ何も作らない。
	for _, l := range lines {
		if l.Item.Quantity <= 0 {
			return CreateCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		if l.Item.Quantity > l.Product.Stock {
			return CreateCheckoutOutput{}, &InsufficientStockError{
				ProductID:   l.Product.ID,
				ProductName: l.Product.Name,
				Remaining:   l.Product.Stock,
			}
		}
	}

	priced := make([]PricedLine, 0, len(lines))
	lineItems := make([]payment.LineItem, 0, len(lines))
	for _, l := range lines {
		priced = append(priced, PricedLine{UnitPrice: l.Product.Price, Quantity: l.Item.Quantity})
		lineItems = append(lineItems, payment.LineItem{
			Name:        l.Product.Name,
			Description: l.Product.ShortDescription,
			ImageURL:    l.Product.ImageURL,
			UnitAmount:  l.Product.Price,
			Quantity:    l.Item.Quantity,
		})
	}

	totals := ComputeTotals(priced)

	session, err := u.gateway.CreateCheckoutSession(ctx, payment.CheckoutSessionParams{
		LineItems:         lineItems,
		SuccessURL:        u.successURL + "?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:         u.cancelURL,
		ClientReferenceID: strconv.FormatInt(userID, 10),
		CustomerEmail:     user.Email,
		Metadata: map[string]string{
			"user_id":          strconv.FormatInt(userID, 10),
			"subtotal":         strconv.FormatInt(totals.Subtotal, 10),
			"tax":              strconv.FormatInt(totals.Tax, 10),
			"shipping_cost":    strconv.FormatInt(totals.ShippingCost, 10),
			"total":            strconv.FormatInt(totals.Total, 10),
			"shipping_address": in.ShippingAddress,
			"city":             in.City,
			"state":            in.State,
			"postal_code":      in.PostalCode,
			"country":          country,
		},
	})
	if err != nil {
		u.logger.Error("create checkout session failed", zap.Int64("user_id", userID), zap.Error(err))
		return CreateCheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "payment session creation failed")
	}

	//金額の控え。Webhook確定時にイベントのmetadataと突き合わせる。
	if err := u.checkouts.Create(ctx, model.CheckoutSession{
		SessionID:          session.ID,
		UserID:             userID,
		Status:             model.CheckoutSessionStatusPending,
		Subtotal:           totals.Subtotal,
		Tax:                totals.Tax,
		ShippingCost:       totals.ShippingCost,
		Total:              totals.Total,
		ShippingAddress:    in.ShippingAddress,
		ShippingCity:       in.City,
		ShippingState:      in.State,
		ShippingPostalCode: in.PostalCode,
		ShippingCountry:    country,
	}); err != nil {
		u.logger.Error("persist checkout record failed",
			zap.String("session_id", session.ID), zap.Error(err))
		return CreateCheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CreateCheckoutOutput{
		SessionID: session.ID,
		URL:       session.URL,
		Totals:    totals,
	}, nil
}
