package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/payment"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 注文番号の衝突で採番し直す上限
const maxOrderNumberAttempts = 3

// FinalizeUsecaseは確認済み決済イベントを注文に変換する。
// 注文作成・明細作成・在庫減算・販売数加算・カート削除は1トランザクション。
type FinalizeUsecase struct {
	tx        repo.TransactionManager
	checkouts repo.CheckoutSessionRepository
	alerts    repo.OperatorAlertRepository
	clock     Clock
	logger    *zap.Logger
}

// DI
func NewFinalizeUsecase(
	tx repo.TransactionManager,
	checkouts repo.CheckoutSessionRepository,
	alerts repo.OperatorAlertRepository,
	clock Clock,
	logger *zap.Logger,
) *FinalizeUsecase {
	return &FinalizeUsecase{
		tx:        tx,
		checkouts: checkouts,
		alerts:    alerts,
		clock:     clock,
		logger:    logger,
	}
}

// 確定に使う金額と配送先。イベントか控えレコードのどちらを信じたかを吸収する。
type confirmedAmounts struct {
	Totals             Totals
	ShippingAddress    string
	ShippingCity       string
	ShippingState      string
	ShippingPostalCode string
	ShippingCountry    string
}

// HandleCompletedSessionは checkout.session.completed を処理する。
// 同じイベントが二度届いても注文は1つ、在庫減算も1回だけ。
// 失敗時は全ロールバックでカートも残る（プロセッサの再送でリトライ可能）。
func (u *FinalizeUsecase) HandleCompletedSession(ctx context.Context, cs payment.CompletedSession) error {
	userID, err := sessionUserID(cs)
	if err != nil {
		return err
	}

	amounts, err := u.resolveAmounts(ctx, cs)
	if err != nil {
		return err
	}

	//注文番号の衝突はトランザクションごと作り直す
	//（Postgresでは制約違反の後に同一Tx内で続行できない）
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		orderNumber := u.newOrderNumber()

		err := u.runFinalizeTx(ctx, cs, userID, orderNumber, amounts)
		if errors.Is(err, repo.ErrDuplicateOrderNumber) {
			u.logger.Warn("order number collision, regenerating",
				zap.String("order_number", orderNumber))
			continue
		}
		if errors.Is(err, repo.ErrDuplicateSession) {
			//並行配送に先を越された。結果は同じなので成功扱い。
			u.logger.Info("duplicate webhook delivery ignored",
				zap.String("session_id", cs.ID))
			return nil
		}
		return err
	}

	return fmt.Errorf("order number generation exhausted %d attempts", maxOrderNumberAttempts)
}

func (u *FinalizeUsecase) runFinalizeTx(
	ctx context.Context,
	cs payment.CompletedSession,
	userID int64,
	orderNumber string,
	amounts confirmedAmounts,
) error {
	var emptyCart bool

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//冪等チェック。このセッションの注文が既にあれば何もしない。
		if _, found, err := r.Orders().FindByPaymentSessionID(ctx, cs.ID); err != nil {
			return err
		} else if found {
			return nil
		}

		//カートを確定時点で読み直す（商品行はFOR UPDATE）
		lines, err := loadCartLines(ctx, r.CartItems(), r.Products(), userID, true)
		if err != nil {
			return err
		}

		if len(lines) == 0 {
			//決済済みなのに作る注文が無い。オペレーター対応に回す。
			emptyCart = true
			return r.Alerts().Create(ctx, model.OperatorAlert{
				Type:      model.AlertTypeEmptyCart,
				SessionID: cs.ID,
				Detail:    fmt.Sprintf("payment captured but cart for user %d is empty", userID),
			})
		}

		now := u.clock.Now()

		//金額はイベント（＝セッション作成時に確定した値）が正。
		//明細は確定時点のカートが正。
		orderID, err := r.Orders().Create(ctx, model.Order{
			OrderNumber:        orderNumber,
			UserID:             userID,
			Status:             model.OrderStatusProcessing,
			PaymentStatus:      model.PaymentStatusPaid,
			PaymentMethod:      "stripe",
			PaymentSessionID:   cs.ID,
			PaymentIntentID:    cs.PaymentIntent,
			Subtotal:           amounts.Totals.Subtotal,
			Tax:                amounts.Totals.Tax,
			ShippingCost:       amounts.Totals.ShippingCost,
			Discount:           0,
			Total:              amounts.Totals.Total,
			ShippingAddress:    amounts.ShippingAddress,
			ShippingCity:       amounts.ShippingCity,
			ShippingState:      amounts.ShippingState,
			ShippingPostalCode: amounts.ShippingPostalCode,
			ShippingCountry:    amounts.ShippingCountry,
			CustomerName:       cs.CustomerDetails.Name,
			CustomerEmail:      customerEmail(cs),
			CustomerPhone:      cs.CustomerDetails.Phone,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
		if err != nil {
			return err
		}

		items := make([]model.OrderItem, 0, len(lines))
		for _, l := range lines {
			p := l.Product
			qty := l.Item.Quantity

			//明細スナップショット
			items = append(items, model.OrderItem{
				ProductID:    p.ID,
				ProductName:  p.Name,
				ProductSKU:   p.SKU,
				ProductImage: p.ImageURL,
				UnitPrice:    p.Price,
				Quantity:     qty,
				Subtotal:     p.Price * qty,
				CreatedAt:    now,
			})

			//在庫は0でクランプ。支払いは済んでいるので確定自体は止めない。
			newStock := p.Stock - qty
			if newStock < 0 {
				productID := p.ID
				if err := r.Alerts().Create(ctx, model.OperatorAlert{
					Type:      model.AlertTypeStockUnderflow,
					SessionID: cs.ID,
					OrderID:   &orderID,
					ProductID: &productID,
					Detail: fmt.Sprintf("sold %d of %q with only %d in stock, clamped to zero",
						qty, p.Name, p.Stock),
				}); err != nil {
					return err
				}
				newStock = 0
			}

			if err := r.Inventory().SetStock(ctx, p.ID, newStock); err != nil {
				return err
			}
			if err := r.Inventory().IncreaseSalesCount(ctx, p.ID, qty); err != nil {
				return err
			}
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return err
		}

		//カートを空にする
		if err := r.CartItems().DeleteByUserID(ctx, userID); err != nil {
			return err
		}

		//控えレコードを消し込む（無い場合はそのまま）
		if err := r.CheckoutSessions().MarkCompleted(ctx, cs.ID); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		return nil
	})

	if err != nil {
		return err
	}

	if emptyCart {
		u.logger.Warn("payment confirmed against empty cart",
			zap.String("session_id", cs.ID), zap.Int64("user_id", userID))
	}
	return nil
}

// resolveAmountsは金額と配送先を決める。
// 控えレコードがあれば必ずイベントと突き合わせ、不一致は不正の疑いとして拒否する。
func (u *FinalizeUsecase) resolveAmounts(ctx context.Context, cs payment.CompletedSession) (confirmedAmounts, error) {
	pending, found, err := u.checkouts.FindBySessionID(ctx, cs.ID)
	if err != nil {
		return confirmedAmounts{}, err
	}

	eventTotals, eventErr := totalsFromMetadata(cs.Metadata)

	if found {
		if eventErr == nil && eventTotals != (Totals{
			Subtotal:     pending.Subtotal,
			Tax:          pending.Tax,
			ShippingCost: pending.ShippingCost,
			Total:        pending.Total,
		}) {
			if aerr := u.alerts.Create(ctx, model.OperatorAlert{
				Type:      model.AlertTypeAmountMismatch,
				SessionID: cs.ID,
				Detail: fmt.Sprintf("event totals %+v do not match recorded totals subtotal=%d tax=%d shipping=%d total=%d",
					eventTotals, pending.Subtotal, pending.Tax, pending.ShippingCost, pending.Total),
			}); aerr != nil {
				return confirmedAmounts{}, aerr
			}
			u.logger.Error("webhook amount mismatch",
				zap.String("session_id", cs.ID))
			return confirmedAmounts{}, ErrAmountMismatch
		}

		return confirmedAmounts{
			Totals: Totals{
				Subtotal:     pending.Subtotal,
				Tax:          pending.Tax,
				ShippingCost: pending.ShippingCost,
				Total:        pending.Total,
			},
			ShippingAddress:    pending.ShippingAddress,
			ShippingCity:       pending.ShippingCity,
			ShippingState:      pending.ShippingState,
			ShippingPostalCode: pending.ShippingPostalCode,
			ShippingCountry:    pending.ShippingCountry,
		}, nil
	}

	//控えが無い（テーブル導入前のセッションなど）。イベントのmetadataを信じるしかない。
	if eventErr != nil {
		return confirmedAmounts{}, fmt.Errorf("no checkout record for session %s and bad metadata: %w", cs.ID, eventErr)
	}
	u.logger.Warn("no checkout record for session, trusting event metadata",
		zap.String("session_id", cs.ID))

	return confirmedAmounts{
		Totals:             eventTotals,
		ShippingAddress:    cs.Metadata["shipping_address"],
		ShippingCity:       cs.Metadata["city"],
		ShippingState:      cs.Metadata["state"],
		ShippingPostalCode: cs.Metadata["postal_code"],
		ShippingCountry:    cs.Metadata["country"],
	}, nil
}

func (u *FinalizeUsecase) newOrderNumber() string {
	ts := u.clock.Now().UTC().Format("20060102150405")
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", ts, random)
}

func sessionUserID(cs payment.CompletedSession) (int64, error) {
	raw := cs.ClientReferenceID
	if raw == "" {
		raw = cs.Metadata["user_id"]
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("event has no usable user reference: %q", raw)
	}
	return id, nil
}

func customerEmail(cs payment.CompletedSession) string {
	if cs.CustomerDetails.Email != "" {
		return cs.CustomerDetails.Email
	}
	return cs.CustomerEmail
}

func totalsFromMetadata(md map[string]string) (Totals, error) {
	var t Totals
	var err error

	if t.Subtotal, err = strconv.ParseInt(md["subtotal"], 10, 64); err != nil {
		return Totals{}, fmt.Errorf("metadata subtotal: %w", err)
	}
	if t.Tax, err = strconv.ParseInt(md["tax"], 10, 64); err != nil {
		return Totals{}, fmt.Errorf("metadata tax: %w", err)
	}
	if t.ShippingCost, err = strconv.ParseInt(md["shipping_cost"], 10, 64); err != nil {
		return Totals{}, fmt.Errorf("metadata shipping_cost: %w", err)
	}
	if t.Total, err = strconv.ParseInt(md["total"], 10, 64); err != nil {
		return Totals{}, fmt.Errorf("metadata total: %w", err)
	}

	//内訳の合計と合っていない金額は壊れた値として扱う
	if t.Total != t.Subtotal+t.Tax+t.ShippingCost {
		return Totals{}, fmt.Errorf("metadata total %d does not equal subtotal+tax+shipping %d",
			t.Total, t.Subtotal+t.Tax+t.ShippingCost)
	}

	return t, nil
}
