package model

import "time"

// 注文明細。購入時点の商品スナップショットで、後から更新しない。
// orderはCASCADE、productはRESTRICT（履歴が生きている商品は消せない）。
type OrderItem struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64     `gorm:"not null;index" json:"order_id"`
	ProductID    int64     `gorm:"not null;index" json:"product_id"`
	ProductName  string    `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductSKU   string    `gorm:"column:product_sku;type:varchar(100);not null" json:"product_sku"`
	ProductImage string    `gorm:"type:varchar(500)" json:"product_image"`
	UnitPrice    int64     `gorm:"not null" json:"unit_price"`
	Quantity     int64     `gorm:"not null" json:"quantity"`
	Subtotal     int64     `gorm:"not null" json:"subtotal"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Order   *Order   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
}
