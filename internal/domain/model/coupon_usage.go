package model

import "time"

// クーポンの使用記録。追記のみ（注文がキャンセルされても消さない）。
type CouponUsage struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CouponID int64     `gorm:"not null;index" json:"coupon_id"`
	UserID   int64     `gorm:"not null;index" json:"user_id"`
	OrderID  int64     `gorm:"not null;index" json:"order_id"`
	UsedAt   time.Time `gorm:"not null;autoCreateTime" json:"used_at"`
}
