package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/shopspring/decimal"
)

// クーポンの管理（CRUD）。ユーザー向けの判定はCouponUsecase。
type AdminCouponUsecase struct {
	couponRepo repo.CouponRepository
	usageRepo  repo.CouponUsageRepository
	auditRepo  repo.AuditLogRepository
	clock      Clock
}

func NewAdminCouponUsecase(
	couponRepo repo.CouponRepository,
	usageRepo repo.CouponUsageRepository,
	auditRepo repo.AuditLogRepository,
	clock Clock,
) *AdminCouponUsecase {
	return &AdminCouponUsecase{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
		auditRepo:  auditRepo,
		clock:      clock,
	}
}

type CouponInput struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Type          string          `json:"type"`
	Value         decimal.Decimal `json:"value"`
	MinOrderValue *int64          `json:"min_order_value"`
	MaxDiscount   *int64          `json:"max_discount"`
	UsageLimit    *int64          `json:"usage_limit"`
	UsagePerUser  int64           `json:"usage_per_user"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	IsActive      bool            `json:"is_active"`
}

func validateCouponInput(in CouponInput) error {
	code := strings.TrimSpace(in.Code)
	if len(code) < 3 || len(code) > 20 {
		return NewHTTPError(http.StatusBadRequest, "code must be 3-20 chars")
	}
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if !model.ValidCouponType(in.Type) {
		return NewHTTPError(http.StatusBadRequest, "invalid type")
	}
	if in.Value.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "value must be >= 0")
	}
	if in.UsagePerUser < 1 || in.UsagePerUser > 10 {
		return NewHTTPError(http.StatusBadRequest, "usage_per_user must be 1-10")
	}
	if in.UsageLimit != nil && *in.UsageLimit < 1 {
		return NewHTTPError(http.StatusBadRequest, "usage_limit must be >= 1")
	}
	if in.MinOrderValue != nil && *in.MinOrderValue < 0 {
		return NewHTTPError(http.StatusBadRequest, "min_order_value must be >= 0")
	}
	if in.MaxDiscount != nil && *in.MaxDiscount < 0 {
		return NewHTTPError(http.StatusBadRequest, "max_discount must be >= 0")
	}
	if !in.EndDate.After(in.StartDate) {
		return NewHTTPError(http.StatusBadRequest, "end_date must be after start_date")
	}
	return nil
}

func (u *AdminCouponUsecase) List(ctx context.Context, f repo.CouponListFilter) ([]model.Coupon, int64, error) {
	items, total, err := u.couponRepo.List(ctx, f)
	if err != nil {
		return []model.Coupon{}, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, total, nil
}

func (u *AdminCouponUsecase) Get(ctx context.Context, couponID int64) (model.Coupon, error) {
	if couponID <= 0 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	c, err := u.couponRepo.FindByID(ctx, couponID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Coupon{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Coupon{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *AdminCouponUsecase) Create(ctx context.Context, actorAdminUserID int64, in CouponInput) (model.Coupon, error) {
	if actorAdminUserID <= 0 {
		return model.Coupon{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateCouponInput(in); err != nil {
		return model.Coupon{}, err
	}

	code := strings.ToUpper(strings.TrimSpace(in.Code))

	//重複チェック
	_, err := u.couponRepo.FindByCode(ctx, code)
	if err == nil {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "coupon code already exists")
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Coupon{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.couponRepo.Create(ctx, model.Coupon{
		Code:          code,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Type:          model.CouponType(in.Type),
		Value:         in.Value,
		MinOrderValue: in.MinOrderValue,
		MaxDiscount:   in.MaxDiscount,
		UsageLimit:    in.UsageLimit,
		UsagePerUser:  in.UsagePerUser,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		IsActive:      in.IsActive,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "coupon code already exists")
		}
		return model.Coupon{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.writeAudit(ctx, actorAdminUserID, created.ID, `{}`, fmt.Sprintf(`{"code":%q}`, created.Code))
	return created, nil
}

func (u *AdminCouponUsecase) Update(ctx context.Context, actorAdminUserID int64, couponID int64, in CouponInput) (model.Coupon, error) {
	if actorAdminUserID <= 0 {
		return model.Coupon{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateCouponInput(in); err != nil {
		return model.Coupon{}, err
	}

	before, err := u.Get(ctx, couponID)
	if err != nil {
		return model.Coupon{}, err
	}

	next := before
	next.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	next.Name = strings.TrimSpace(in.Name)
	next.Description = in.Description
	next.Type = model.CouponType(in.Type)
	next.Value = in.Value
	next.MinOrderValue = in.MinOrderValue
	next.MaxDiscount = in.MaxDiscount
	next.UsageLimit = in.UsageLimit
	next.UsagePerUser = in.UsagePerUser
	next.StartDate = in.StartDate
	next.EndDate = in.EndDate
	next.IsActive = in.IsActive

	if err := u.couponRepo.Update(ctx, next); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Coupon{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Coupon{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.writeAudit(ctx, actorAdminUserID, couponID,
		fmt.Sprintf(`{"code":%q,"is_active":%t}`, before.Code, before.IsActive),
		fmt.Sprintf(`{"code":%q,"is_active":%t}`, next.Code, next.IsActive))
	return next, nil
}

// Deleteはクーポンを削除する。
// すでに使用実績があるものは履歴を守るため削除せず無効化に切り替える。
func (u *AdminCouponUsecase) Delete(ctx context.Context, actorAdminUserID int64, couponID int64) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c, err := u.Get(ctx, couponID)
	if err != nil {
		return err
	}

	_, usedTotal, err := u.usageRepo.ListByCouponID(ctx, couponID, 1, 1)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if usedTotal > 0 {
		if err := u.couponRepo.Deactivate(ctx, couponID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		u.writeAudit(ctx, actorAdminUserID, couponID,
			fmt.Sprintf(`{"code":%q,"is_active":%t}`, c.Code, c.IsActive),
			fmt.Sprintf(`{"code":%q,"is_active":false}`, c.Code))
		return nil
	}

	if err := u.couponRepo.Delete(ctx, couponID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	u.writeAudit(ctx, actorAdminUserID, couponID,
		fmt.Sprintf(`{"code":%q}`, c.Code), `{"deleted":true}`)
	return nil
}

func (u *AdminCouponUsecase) UsageHistory(ctx context.Context, couponID int64, page int, limit int) ([]model.CouponUsage, int64, error) {
	if couponID <= 0 {
		return []model.CouponUsage{}, 0, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, total, err := u.usageRepo.ListByCouponID(ctx, couponID, page, limit)
	if err != nil {
		return []model.CouponUsage{}, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, total, nil
}

// 監査ログは失敗しても操作自体は成功扱い（ログ欠落より操作優先）
func (u *AdminCouponUsecase) writeAudit(ctx context.Context, actorUserID int64, couponID int64, beforeJSON string, afterJSON string) {
	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       model.AuditActionUpdateCoupon,
		ResourceType: model.AuditResourceCoupon,
		ResourceID:   couponID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    u.clock.Now(),
	})
}
