package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "COD"
	PaymentMethodBank    PaymentMethod = "BANK"
	PaymentMethodMomo    PaymentMethod = "MOMO"
	PaymentMethodZaloPay PaymentMethod = "ZALOPAY"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// 進行順。CANCELLEDは別扱い。
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

// 終端ステータスか（以後は一切変更不可）
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// ValidStatusはOrderStatusとして受け付ける値かを判定する。
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionはfrom→toの遷移が許されるかを返す。
// 前進のみ。CANCELLEDへは終端以外から（ユーザー起点の制限は呼び出し側）。
func CanTransition(from, to OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	fromRank, ok1 := orderStatusRank[from]
	toRank, ok2 := orderStatusRank[to]
	if !ok1 || !ok2 {
		return false
	}
	return toRank > fromRank
}

// CanCancelByUserはユーザー自身がキャンセルできる状態かを返す。
func CanCancelByUser(s OrderStatus) bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//業務用の注文番号（FA+日付+連番）
	OrderNumber string `gorm:"type:varchar(20);not null;uniqueIndex" json:"order_number"`

	UserID    int64 `gorm:"not null;index" json:"user_id"`
	AddressID int64 `gorm:"not null" json:"address_id"`

	Status        OrderStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"payment_status"`

	Subtotal       int64 `gorm:"not null" json:"subtotal"`
	ShippingFee    int64 `gorm:"not null" json:"shipping_fee"`
	DiscountAmount int64 `gorm:"not null;default:0" json:"discount_amount"`
	Total          int64 `gorm:"not null" json:"total"`

	CouponID *int64 `gorm:"index" json:"coupon_id"`
	Note     string `gorm:"type:text" json:"note"`

	//住所スナップショット（後から住所を編集しても注文は変わらない）
	ShipFullName string `gorm:"type:varchar(255);not null" json:"ship_full_name"`
	ShipPhone    string `gorm:"type:varchar(30);not null" json:"ship_phone"`
	ShipStreet   string `gorm:"type:varchar(255);not null" json:"ship_street"`
	ShipWard     string `gorm:"type:varchar(100)" json:"ship_ward"`
	ShipDistrict string `gorm:"type:varchar(100)" json:"ship_district"`
	ShipCity     string `gorm:"type:varchar(100);not null" json:"ship_city"`
	ShipProvince string `gorm:"type:varchar(100)" json:"ship_province"`

	PaidAt      *time.Time `json:"paid_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
