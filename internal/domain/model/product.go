package model

import "time"

type ProductStatus string

// 販売中/引退済みのライフサイクル。boolフラグでは持たない。
const (
	ProductStatusActive  ProductStatus = "ACTIVE"
	ProductStatusRetired ProductStatus = "RETIRED"
)

// 金額は全てminor unit（セント）で持つ。
type Product struct {
	ID               int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string        `gorm:"type:varchar(255);not null" json:"name"`
	Slug             string        `gorm:"type:varchar(300);uniqueIndex:uq_products_slug;not null" json:"slug"`
	SKU              string        `gorm:"column:sku;type:varchar(100);uniqueIndex:uq_products_sku;not null" json:"sku"`
	Description      string        `gorm:"type:text" json:"description"`
	ShortDescription string        `gorm:"type:varchar(500)" json:"short_description"`
	Price            int64         `gorm:"not null" json:"price"`
	Stock            int64         `gorm:"not null;default:0" json:"stock"`
	CategoryID       int64         `gorm:"not null;index" json:"category_id"`
	ImageURL         string        `gorm:"type:varchar(500)" json:"image_url"`
	Status           ProductStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	SalesCount       int64         `gorm:"not null;default:0" json:"sales_count"`
	CreatedAt        time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
