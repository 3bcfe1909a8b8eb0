package model

import "time"

// 配送先住所
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	//宛名
	FullName string `gorm:"type:varchar(255);not null" json:"full_name"`

	//電話番号
	Phone string `gorm:"type:varchar(30);not null" json:"phone"`

	//番地・通り
	Street string `gorm:"type:varchar(255);not null" json:"street"`

	Ward     string `gorm:"type:varchar(100)" json:"ward"`
	District string `gorm:"type:varchar(100)" json:"district"`
	City     string `gorm:"type:varchar(100);not null" json:"city"`
	Province string `gorm:"type:varchar(100)" json:"province"`

	//このユーザーのデフォルト住所か
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
