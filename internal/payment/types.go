package payment

import "encoding/json"

// チェックアウトセッション作成の1明細。金額はminor unit。
type LineItem struct {
	Name        string
	Description string
	ImageURL    string
	UnitAmount  int64
	Quantity    int64
}

type CheckoutSessionParams struct {
	LineItems         []LineItem
	SuccessURL        string
	CancelURL         string
	ClientReferenceID string
	CustomerEmail     string
	Metadata          map[string]string
}

// プロセッサが返すセッション（リダイレクト先）
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Webhookで届くイベントの外枠
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

const EventTypeCheckoutCompleted = "checkout.session.completed"

// checkout.session.completed の中身
type CompletedSession struct {
	ID                string            `json:"id"`
	PaymentIntent     string            `json:"payment_intent"`
	ClientReferenceID string            `json:"client_reference_id"`
	CustomerEmail     string            `json:"customer_email"`
	Metadata          map[string]string `json:"metadata"`
	CustomerDetails   CustomerDetails   `json:"customer_details"`
}

// 決済ページで確定した顧客情報のスナップショット
type CustomerDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
