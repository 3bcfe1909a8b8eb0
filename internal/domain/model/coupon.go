package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponTypePercentage   CouponType = "PERCENTAGE"
	CouponTypeFixedAmount  CouponType = "FIXED_AMOUNT"
	CouponTypeFreeShipping CouponType = "FREE_SHIPPING"
)

func ValidCouponType(s string) bool {
	switch CouponType(s) {
	case CouponTypePercentage, CouponTypeFixedAmount, CouponTypeFreeShipping:
		return true
	}
	return false
}

// クーポン。codeは大文字で正規化して保存する。
type Coupon struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string     `gorm:"type:varchar(20);not null;uniqueIndex" json:"code"`
	Name        string     `gorm:"type:varchar(100);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Type        CouponType `gorm:"type:varchar(20);not null" json:"type"`

	//割引値（%か金額。typeによる）
	Value decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"value"`

	//最低注文額（nilなら制限なし）
	MinOrderValue *int64 `json:"min_order_value"`

	//割引上限（PERCENTAGE用。nilなら上限なし）
	MaxDiscount *int64 `json:"max_discount"`

	//全体の使用回数上限（nilなら無制限）
	UsageLimit *int64 `json:"usage_limit"`

	//1ユーザーあたりの使用回数上限
	UsagePerUser int64 `gorm:"not null;default:1" json:"usage_per_user"`

	//使用済み回数。条件付きUPDATE以外で変更しない。
	UsedCount int64 `gorm:"not null;default:0" json:"used_count"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
