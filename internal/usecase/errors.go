package usecase

import (
	"errors"
	"fmt"
)

// 業務エラーの機械向けコード。
// handlerはMessageを返し、CodeはAPIレスポンスの error_code に入る。
const (
	CodeEmptyCart               = "EMPTY_CART"
	CodeAddressNotFound         = "ADDRESS_NOT_FOUND"
	CodeInsufficientStock       = "INSUFFICIENT_STOCK"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeSequenceOverflow        = "SEQUENCE_OVERFLOW"

	//クーポン関連（validateのチェック順に対応）
	CodeCouponNotFound     = "COUPON_NOT_FOUND"
	CodeCouponInactive     = "COUPON_INACTIVE"
	CodeCouponNotStarted   = "COUPON_NOT_STARTED"
	CodeCouponExpired      = "COUPON_EXPIRED"
	CodeCouponLimitReached = "COUPON_LIMIT_REACHED"
	CodeUserLimitReached   = "USER_LIMIT_REACHED"
	CodeMinOrderNotMet     = "MIN_ORDER_NOT_MET"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// 機械向けコード付きの業務エラー
func NewCodedError(status int, code string, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
