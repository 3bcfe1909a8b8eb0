package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"
)

type CouponListFilter struct {
	Page     int
	Limit    int
	IsActive *bool
}

type CouponRepository interface {
	//codeは大文字に正規化して検索する
	FindByCode(ctx context.Context, code string) (model.Coupon, error)
	FindByID(ctx context.Context, couponID int64) (model.Coupon, error)

	//有効かつ期間内のクーポン一覧（終了日の近い順）
	ListActive(ctx context.Context, now time.Time) ([]model.Coupon, error)

	//管理者用の一覧
	List(ctx context.Context, f CouponListFilter) ([]model.Coupon, int64, error)

	Create(ctx context.Context, c model.Coupon) (model.Coupon, error)
	Update(ctx context.Context, c model.Coupon) error
	Delete(ctx context.Context, couponID int64) error
	Deactivate(ctx context.Context, couponID int64) error

	// used_countを+1する。usage_limitに達していたらfalse。
	// チェックと加算は1文で行う。
	IncrementUsedCount(ctx context.Context, couponID int64) (bool, error)
}
