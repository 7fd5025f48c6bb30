package usecase

import (
	"errors"
	"fmt"
)

// handlerへHTTPステータスを運ぶエラー
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// セッション作成時に在庫が足りない。商品名と残数を伝えて全体を中止する。
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Remaining   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: only %d available", e.ProductName, e.Remaining)
}

// Webhookの金額がセッション作成時の控えと一致しない（不正の疑い）
var ErrAmountMismatch = errors.New("payment amount does not match checkout record")
