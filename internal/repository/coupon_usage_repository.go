package repository

import (
	"context"

	"shop/internal/domain/model"
)

// クーポン使用記録。追記のみ。
type CouponUsageRepository interface {
	Create(ctx context.Context, usage model.CouponUsage) error

	//このユーザーがこのクーポンを使った回数
	CountByCouponAndUser(ctx context.Context, couponID int64, userID int64) (int64, error)

	//使用履歴（管理者用）
	ListByCouponID(ctx context.Context, couponID int64, page int, limit int) ([]model.CouponUsage, int64, error)
}
