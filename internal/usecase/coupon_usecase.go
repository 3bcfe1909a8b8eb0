package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/shopspring/decimal"
)

type CouponUsecase struct {
	couponRepo repo.CouponRepository
	usageRepo  repo.CouponUsageRepository
	clock      Clock
}

func NewCouponUsecase(
	couponRepo repo.CouponRepository,
	usageRepo repo.CouponUsageRepository,
	clock Clock,
) *CouponUsecase {
	return &CouponUsecase{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
		clock:      clock,
	}
}

type ValidateCouponInput struct {
	Code        string
	OrderTotal  int64
	ShippingFee int64
}

// 適用できたクーポンの情報
type AppliedCoupon struct {
	ID             int64  `json:"id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Value          string `json:"value"`
	DiscountAmount int64  `json:"discount_amount"`
	FinalTotal     int64  `json:"final_total"`
}

// validateの結果。使えない場合もエラーではなくvalid=falseで返す。
type ValidateCouponResult struct {
	Valid        bool           `json:"valid"`
	ErrorCode    string         `json:"error_code,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Coupon       *AppliedCoupon `json:"coupon,omitempty"`
}

// checkCouponは1件のクーポンの適用可否を判定する。
// チェック順は固定：有効フラグ→開始→終了→全体上限→ユーザー上限→最低注文額。
// 使える場合は("", "")を返す。
func checkCoupon(c model.Coupon, userUsed int64, orderTotal int64, now time.Time) (code string, msg string) {
	if !c.IsActive {
		return CodeCouponInactive, "coupon is not active"
	}
	if now.Before(c.StartDate) {
		return CodeCouponNotStarted, "coupon is not valid yet"
	}
	if now.After(c.EndDate) {
		return CodeCouponExpired, "coupon has expired"
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return CodeCouponLimitReached, "coupon usage limit reached"
	}
	if userUsed >= c.UsagePerUser {
		return CodeUserLimitReached, "coupon already used"
	}
	if c.MinOrderValue != nil && orderTotal < *c.MinOrderValue {
		return CodeMinOrderNotMet, "order total below coupon minimum"
	}
	return "", ""
}

// calculateDiscountは割引額を計算する。
// どのtypeでも割引は注文額を超えない。
func calculateDiscount(c model.Coupon, orderTotal int64, shippingFee int64) int64 {
	var discount int64

	switch c.Type {
	case model.CouponTypePercentage:
		//パーセント（端数切り捨て）
		d := decimal.NewFromInt(orderTotal).
			Mul(c.Value).
			Div(decimal.NewFromInt(100))
		discount = d.IntPart()

		//上限があればそこまで
		if c.MaxDiscount != nil && discount > *c.MaxDiscount {
			discount = *c.MaxDiscount
		}

	case model.CouponTypeFixedAmount:
		discount = c.Value.IntPart()

	case model.CouponTypeFreeShipping:
		discount = shippingFee
	}

	if discount > orderTotal {
		discount = orderTotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// Validateはクーポンが使えるかを判定し、割引額を計算して返す。
func (u *CouponUsecase) Validate(ctx context.Context, userID int64, in ValidateCouponInput) (ValidateCouponResult, error) {
	if userID <= 0 {
		return ValidateCouponResult{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Code) == "" {
		return ValidateCouponResult{}, NewHTTPError(http.StatusBadRequest, "invalid code")
	}
	if in.OrderTotal < 0 || in.ShippingFee < 0 {
		return ValidateCouponResult{}, NewHTTPError(http.StatusBadRequest, "invalid amount")
	}

	c, err := u.couponRepo.FindByCode(ctx, in.Code)
	if errors.Is(err, repo.ErrNotFound) {
		return ValidateCouponResult{
			Valid:        false,
			ErrorCode:    CodeCouponNotFound,
			ErrorMessage: "coupon not found",
		}, nil
	}
	if err != nil {
		return ValidateCouponResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	userUsed, err := u.usageRepo.CountByCouponAndUser(ctx, c.ID, userID)
	if err != nil {
		return ValidateCouponResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if code, msg := checkCoupon(c, userUsed, in.OrderTotal, u.clock.Now()); code != "" {
		return ValidateCouponResult{
			Valid:        false,
			ErrorCode:    code,
			ErrorMessage: msg,
		}, nil
	}

	discount := calculateDiscount(c, in.OrderTotal, in.ShippingFee)

	return ValidateCouponResult{
		Valid: true,
		Coupon: &AppliedCoupon{
			ID:             c.ID,
			Code:           c.Code,
			Name:           c.Name,
			Type:           string(c.Type),
			Value:          c.Value.String(),
			DiscountAmount: discount,
			FinalTotal:     in.OrderTotal - discount,
		},
	}, nil
}

// ユーザーがまだ使えるクーポン（残り回数つき）
type AvailableCoupon struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	Value         string    `json:"value"`
	MinOrderValue *int64    `json:"min_order_value"`
	MaxDiscount   *int64    `json:"max_discount"`
	EndDate       time.Time `json:"end_date"`
	RemainingUses int64     `json:"remaining_uses"`
}

// ListAvailableは「有効・期間内・全体上限未達・このユーザーの残り回数あり」
// のクーポンを返す。
func (u *CouponUsecase) ListAvailable(ctx context.Context, userID int64) ([]AvailableCoupon, error) {
	if userID <= 0 {
		return []AvailableCoupon{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	now := u.clock.Now()
	coupons, err := u.couponRepo.ListActive(ctx, now)
	if err != nil {
		return []AvailableCoupon{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]AvailableCoupon, 0, len(coupons))
	for _, c := range coupons {
		//全体上限
		if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
			continue
		}

		//ユーザー上限
		userUsed, err := u.usageRepo.CountByCouponAndUser(ctx, c.ID, userID)
		if err != nil {
			return []AvailableCoupon{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if userUsed >= c.UsagePerUser {
			continue
		}

		out = append(out, AvailableCoupon{
			ID:            c.ID,
			Code:          c.Code,
			Name:          c.Name,
			Description:   c.Description,
			Type:          string(c.Type),
			Value:         c.Value.String(),
			MinOrderValue: c.MinOrderValue,
			MaxDiscount:   c.MaxDiscount,
			EndDate:       c.EndDate,
			RemainingUses: c.UsagePerUser - userUsed,
		})
	}

	return out, nil
}
