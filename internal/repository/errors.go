package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// 一意制約違反（payment_session_id）。二重配送の検出に使う。
	ErrDuplicateSession = errors.New("duplicate payment session")

	// 一意制約違反（order_number）。採番し直してリトライする。
	ErrDuplicateOrderNumber = errors.New("duplicate order number")
)
