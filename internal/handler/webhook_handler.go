package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"app/internal/payment"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// 決済プロセッサからの非同期通知。
// 署名検証を通ったイベントだけが確定処理に渡る。
type WebhookHandler struct {
	verifier *payment.WebhookVerifier
	finalize *usecase.FinalizeUsecase
	logger   *zap.Logger
}

// DI
func NewWebhookHandler(verifier *payment.WebhookVerifier, finalize *usecase.FinalizeUsecase, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, finalize: finalize, logger: logger}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/orders/webhook", h.handle)
}

type webhookAck struct {
	Received bool `json:"received"`
}

func (h *WebhookHandler) handle(c echo.Context) error {
	//署名は生のボディに対して計算する。再シリアライズしない。
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot read body"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")

	ev, err := h.verifier.VerifyAndParse(body, sig)
	if err != nil {
		h.logger.Warn("webhook rejected", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "signature verification failed"})
	}

	if ev.Type != payment.EventTypeCheckoutCompleted {
		//関心のないイベントはそのままACK
		return c.JSON(http.StatusOK, webhookAck{Received: true})
	}

	var cs payment.CompletedSession
	if err := json.Unmarshal(ev.Data.Object, &cs); err != nil {
		h.logger.Error("malformed completed session payload",
			zap.String("event_id", ev.ID), zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed event"})
	}

	if err := h.finalize.HandleCompletedSession(c.Request().Context(), cs); err != nil {
		if errors.Is(err, usecase.ErrAmountMismatch) {
			//不正の疑い。アラートは記録済みなので再送は求めない。
			return c.JSON(http.StatusOK, webhookAck{Received: true})
		}

		//確定に失敗。503で返してプロセッサに再送してもらう。
		//支払い済みなのに注文が無い、を黙って飲み込まない。
		h.logger.Error("order finalization failed",
			zap.String("session_id", cs.ID), zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "finalization failed"})
	}

	return c.JSON(http.StatusOK, webhookAck{Received: true})
}
