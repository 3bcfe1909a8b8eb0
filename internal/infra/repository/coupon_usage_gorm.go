package repository

import (
	"context"

	"shop/internal/domain/model"

	"gorm.io/gorm"
)

type CouponUsageGormRepository struct {
	db *gorm.DB
}

func NewCouponUsageGormRepository(db *gorm.DB) *CouponUsageGormRepository {
	return &CouponUsageGormRepository{db: db}
}

func (r *CouponUsageGormRepository) Create(ctx context.Context, usage model.CouponUsage) error {
	return r.db.WithContext(ctx).Create(&usage).Error
}

func (r *CouponUsageGormRepository) CountByCouponAndUser(ctx context.Context, couponID int64, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CouponUsageGormRepository) ListByCouponID(ctx context.Context, couponID int64, page int, limit int) ([]model.CouponUsage, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.CouponUsage{}).
		Where("coupon_id = ?", couponID).
		Count(&total).Error; err != nil {
		return []model.CouponUsage{}, 0, err
	}

	var items []model.CouponUsage
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("coupon_id = ?", couponID).
		Order("used_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.CouponUsage{}, 0, err
	}

	return items, total, nil
}
