package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCheckoutSession_SendsFormAndParsesResponse(t *testing.T) {
	var gotForm map[string][]string
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		gotAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_123","url":"https://pay.example.com/cs_123"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test_abc")
	s, err := c.CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		LineItems: []LineItem{
			{Name: "Widget", UnitAmount: 5000, Quantity: 2},
		},
		SuccessURL:        "https://shop.example.com/success",
		CancelURL:         "https://shop.example.com/cancel",
		ClientReferenceID: "7",
		CustomerEmail:     "jane@example.com",
		Metadata:          map[string]string{"total": "12000"},
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_123", s.ID)
	assert.Equal(t, "https://pay.example.com/cs_123", s.URL)

	assert.Equal(t, "Bearer sk_test_abc", gotAuth)
	assert.Equal(t, "payment", gotForm["mode"][0])
	assert.Equal(t, "7", gotForm["client_reference_id"][0])
	assert.Equal(t, "Widget", gotForm["line_items[0][price_data][product_data][name]"][0])
	assert.Equal(t, "5000", gotForm["line_items[0][price_data][unit_amount]"][0])
	assert.Equal(t, "2", gotForm["line_items[0][quantity]"][0])
	assert.Equal(t, "12000", gotForm["metadata[total]"][0])
}

func TestCreateCheckoutSession_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"Your card was declined."}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test_abc")
	_, err := c.CreateCheckoutSession(context.Background(), CheckoutSessionParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Your card was declined.")
}

func TestCreateCheckoutSession_IncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"cs_123"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test_abc")
	_, err := c.CreateCheckoutSession(context.Background(), CheckoutSessionParams{})
	assert.Error(t, err)
}
