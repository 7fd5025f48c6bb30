package payment

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

var completedPayload = []byte(`{
	"id": "evt_1",
	"type": "checkout.session.completed",
	"data": {"object": {"id": "cs_1", "client_reference_id": "7"}}
}`)

func newTestVerifier(now time.Time) *WebhookVerifier {
	v := NewWebhookVerifier(testSecret)
	v.now = func() time.Time { return now }
	return v
}

func TestVerifyAndParse_ValidSignature(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestVerifier(now)

	header := SignPayload(testSecret, now, completedPayload)

	ev, err := v.VerifyAndParse(completedPayload, header)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, EventTypeCheckoutCompleted, ev.Type)
	assert.NotEmpty(t, ev.Data.Object)
}

func TestVerifyAndParse_WrongSecret(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestVerifier(now)

	header := SignPayload("whsec_other", now, completedPayload)

	_, err := v.VerifyAndParse(completedPayload, header)
	assert.ErrorIs(t, err, ErrSignatureVerification)
}

func TestVerifyAndParse_TamperedPayload(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestVerifier(now)

	header := SignPayload(testSecret, now, completedPayload)

	tampered := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_other"}}}`)
	_, err := v.VerifyAndParse(tampered, header)
	assert.ErrorIs(t, err, ErrSignatureVerification)
}

func TestVerifyAndParse_StaleTimestamp(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestVerifier(now)

	//許容幅より古い署名は再生攻撃とみなす
	header := SignPayload(testSecret, now.Add(-6*time.Minute), completedPayload)

	_, err := v.VerifyAndParse(completedPayload, header)
	assert.ErrorIs(t, err, ErrSignatureVerification)
}

func TestVerifyAndParse_MalformedHeader(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestVerifier(now)

	for _, header := range []string{"", "t=abc,v1=ff", "v1=ff", "t=1748779200"} {
		_, err := v.VerifyAndParse(completedPayload, header)
		assert.ErrorIs(t, err, ErrSignatureVerification, "header=%q", header)
	}
}

func TestVerifyAndParse_SecondSignatureAccepted(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestVerifier(now)

	//キーローテーション中はv1が複数並ぶ。どれか1つ合えばよい。
	oldSig := computeSignature([]byte("whsec_old"), now.Unix(), completedPayload)
	goodSig := computeSignature([]byte(testSecret), now.Unix(), completedPayload)
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s",
		now.Unix(), hex.EncodeToString(oldSig), hex.EncodeToString(goodSig))

	ev, err := v.VerifyAndParse(completedPayload, header)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
}
