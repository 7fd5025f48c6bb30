package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 署名が検証できない。署名NGのイベントは処理してはいけない。
var ErrSignatureVerification = errors.New("webhook signature verification failed")

const DefaultTolerance = 5 * time.Minute

// Webhook署名の検証器。
// ヘッダ形式は t=<unix>,v1=<hex(hmac-sha256("<t>.<raw body>"))>。
type WebhookVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{
		secret:    []byte(secret),
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
}

// VerifyAndParse は生のボディ（再シリアライズ禁止）と署名ヘッダからイベントを返す。
func (v *WebhookVerifier) VerifyAndParse(payload []byte, sigHeader string) (Event, error) {
	ts, sigs, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return Event{}, err
	}

	//再送の古さチェック
	eventTime := time.Unix(ts, 0)
	age := v.now().Sub(eventTime)
	if age > v.tolerance || age < -v.tolerance {
		return Event{}, fmt.Errorf("%w: timestamp outside tolerance", ErrSignatureVerification)
	}

	expected := computeSignature(v.secret, ts, payload)

	matched := false
	for _, sig := range sigs {
		if subtle.ConstantTimeCompare(expected, sig) == 1 {
			matched = true
		}
	}
	if !matched {
		return Event{}, ErrSignatureVerification
	}

	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, fmt.Errorf("parse webhook payload: %w", err)
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("parse webhook payload: missing event type")
	}

	return ev, nil
}

// テスト用に署名ヘッダを作る
func SignPayload(secret string, ts time.Time, payload []byte) string {
	sig := computeSignature([]byte(secret), ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))
}

func computeSignature(secret []byte, ts int64, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return mac.Sum(nil)
}

func parseSignatureHeader(header string) (int64, [][]byte, error) {
	if strings.TrimSpace(header) == "" {
		return 0, nil, fmt.Errorf("%w: missing signature header", ErrSignatureVerification)
	}

	var ts int64 = -1
	var sigs [][]byte

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			parsed, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: bad timestamp", ErrSignatureVerification)
			}
			ts = parsed
		case "v1":
			sig, err := hex.DecodeString(kv[1])
			if err != nil {
				continue
			}
			sigs = append(sigs, sig)
		}
	}

	if ts < 0 || len(sigs) == 0 {
		return 0, nil, fmt.Errorf("%w: malformed signature header", ErrSignatureVerification)
	}
	return ts, sigs, nil
}
