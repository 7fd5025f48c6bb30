package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"app/internal/payment"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const webhookTestSecret = "whsec_handler_test"

func postWebhook(t *testing.T, h *WebhookHandler, body string, sig string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/orders/webhook", strings.NewReader(body))
	if sig != "" {
		req.Header.Set("Stripe-Signature", sig)
	}
	rec := httptest.NewRecorder()

	err := h.handle(e.NewContext(req, rec))
	assert.NoError(t, err)
	return rec
}

func newWebhookTestHandler() *WebhookHandler {
	verifier := payment.NewWebhookVerifier(webhookTestSecret)
	//DB確定まで到達しないケース専用（依存はnilのまま）
	finalize := usecase.NewFinalizeUsecase(nil, nil, nil, nil, zap.NewNop())
	return NewWebhookHandler(verifier, finalize, zap.NewNop())
}

func TestWebhook_RejectsMissingSignature(t *testing.T) {
	h := newWebhookTestHandler()

	rec := postWebhook(t, h, `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{}}}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_RejectsBadSignature(t *testing.T) {
	h := newWebhookTestHandler()

	body := `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{}}}`
	sig := payment.SignPayload("whsec_wrong", time.Now(), []byte(body))

	rec := postWebhook(t, h, body, sig)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_AcksUninterestingEvents(t *testing.T) {
	h := newWebhookTestHandler()

	body := `{"id":"evt_2","type":"payment_intent.created","data":{"object":{}}}`
	sig := payment.SignPayload(webhookTestSecret, time.Now(), []byte(body))

	rec := postWebhook(t, h, body, sig)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"received":true`)
}

func TestWebhook_CompletedSessionWithoutUserIs503(t *testing.T) {
	h := newWebhookTestHandler()

	//署名は正しいがユーザー参照が無い → 確定できず再送を求める
	body := `{"id":"evt_3","type":"checkout.session.completed","data":{"object":{"id":"cs_1","metadata":{}}}}`
	sig := payment.SignPayload(webhookTestSecret, time.Now(), []byte(body))

	rec := postWebhook(t, h, body, sig)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
