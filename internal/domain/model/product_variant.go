package model

import "time"

// サイズ×カラーの組み合わせ。在庫はここで持つ。
// stockは条件付きUPDATE以外で変更しない（負数にならない保証）。
type ProductVariant struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`
	Size      string `gorm:"type:varchar(20);not null" json:"size"`
	Color     string `gorm:"type:varchar(50);not null" json:"color"`
	ColorCode string `gorm:"type:varchar(10)" json:"color_code"`
	Stock     int64  `gorm:"not null;default:0" json:"stock"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
