package model

import "time"

// カート明細。(user_id, product_id)で一意、同じ商品は数量加算。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_cart_items_user_product;index" json:"user_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:uq_cart_items_user_product;index" json:"product_id"`
	Quantity  int64     `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
