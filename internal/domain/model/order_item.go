package model

import "time"

// 注文明細。注文時点のスナップショット（後から商品を編集しても変わらない）。
type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	VariantID int64 `gorm:"not null;index" json:"variant_id"`

	ProductName  string `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductImage string `gorm:"type:varchar(500)" json:"product_image"`
	Size         string `gorm:"type:varchar(20);not null" json:"size"`
	Color        string `gorm:"type:varchar(50);not null" json:"color"`

	Quantity   int64 `gorm:"not null" json:"quantity"`
	UnitPrice  int64 `gorm:"not null" json:"unit_price"`
	TotalPrice int64 `gorm:"not null" json:"total_price"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
