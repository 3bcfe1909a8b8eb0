package model

import "time"

// カートの明細。同じバリアントは1行（数量加算）。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"not null;index;uniqueIndex:idx_cart_variant" json:"cart_id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	VariantID int64     `gorm:"not null;uniqueIndex:idx_cart_variant" json:"variant_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
