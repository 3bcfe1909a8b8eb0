package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shop/internal/config"
	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type OrderUsecase struct {
	tx    repo.TransactionManager
	clock Clock

	shippingFee           int64
	freeShippingThreshold int64
	orderNumberPrefix     string
}

func NewOrderUsecase(tx repo.TransactionManager, clock Clock, cfg config.Config) *OrderUsecase {
	return &OrderUsecase{
		tx:                    tx,
		clock:                 clock,
		shippingFee:           cfg.ShippingFee,
		freeShippingThreshold: cfg.FreeShippingThreshold,
		orderNumberPrefix:     cfg.OrderNumberPrefix,
	}
}

type CreateOrderInput struct {
	AddressID     int64
	PaymentMethod string
	CouponCode    string
	Note          string
}

type OrderItemOutput struct {
	ProductID    int64  `json:"product_id"`
	VariantID    int64  `json:"variant_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	Size         string `json:"size"`
	Color        string `json:"color"`
	Quantity     int64  `json:"quantity"`
	UnitPrice    int64  `json:"unit_price"`
	TotalPrice   int64  `json:"total_price"`
}

type ShippingAddressOutput struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	Ward     string `json:"ward"`
	District string `json:"district"`
	City     string `json:"city"`
	Province string `json:"province"`
}

type OrderOutput struct {
	ID              int64                 `json:"id"`
	OrderNumber     string                `json:"order_number"`
	UserID          int64                 `json:"user_id"`
	Status          string                `json:"status"`
	PaymentMethod   string                `json:"payment_method"`
	PaymentStatus   string                `json:"payment_status"`
	Subtotal        int64                 `json:"subtotal"`
	ShippingFee     int64                 `json:"shipping_fee"`
	DiscountAmount  int64                 `json:"discount_amount"`
	Total           int64                 `json:"total"`
	Note            string                `json:"note,omitempty"`
	ShippingAddress ShippingAddressOutput `json:"shipping_address"`
	PaidAt          *time.Time            `json:"paid_at"`
	ShippedAt       *time.Time            `json:"shipped_at"`
	DeliveredAt     *time.Time            `json:"delivered_at"`
	CancelledAt     *time.Time            `json:"cancelled_at"`
	CreatedAt       time.Time             `json:"created_at"`
	Items           []OrderItemOutput     `json:"items"`
}

func validPaymentMethod(s string) bool {
	switch model.PaymentMethod(s) {
	case model.PaymentMethodCOD, model.PaymentMethodBank,
		model.PaymentMethodMomo, model.PaymentMethodZaloPay:
		return true
	}
	return false
}

// 注文明細に落とす前の作業用
type orderLine struct {
	item        model.OrderItem
	variantID   int64
	productName string
}

// CreateOrderはカートから注文を作る。
// 注文INSERT・明細INSERT・在庫減算・カートクリア・クーポン使用記録は
// すべて1つのTx。どれか1つでも失敗したら全部無かったことになる。
func (u *OrderUsecase) CreateOrder(ctx context.Context, userID int64, in CreateOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.AddressID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid address_id")
	}
	if !validPaymentMethod(in.PaymentMethod) {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート取得（空なら注文できない）
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewCodedError(http.StatusBadRequest, CodeEmptyCart, "cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewCodedError(http.StatusBadRequest, CodeEmptyCart, "cart is empty")
		}

		//住所の存在＋所有チェック
		addr, err := r.Addresses().FindUserAddress(ctx, userID, in.AddressID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewCodedError(http.StatusNotFound, CodeAddressNotFound, "address not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//在庫の事前チェックと明細のスナップショット作成
		lines := make([]orderLine, 0, len(cartItems))
		var subtotal int64 = 0

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, "product no longer available")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusBadRequest, "product no longer available")
			}

			v, err := r.Products().FindVariantByID(ctx, ci.VariantID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, "product no longer available")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//足りなければこの時点で全体を失敗させる（部分注文は作らない）
			if v.Stock < ci.Quantity {
				return NewCodedError(http.StatusBadRequest, CodeInsufficientStock,
					fmt.Sprintf("product %q is out of stock", p.Name))
			}

			imageURL, err := r.Products().FindMainImageURL(ctx, p.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//価格はセール優先
			unit := p.SellingPrice()
			line := unit * ci.Quantity
			subtotal += line

			lines = append(lines, orderLine{
				item: model.OrderItem{
					ProductID:    p.ID,
					VariantID:    v.ID,
					ProductName:  p.Name,
					ProductImage: imageURL,
					Size:         v.Size,
					Color:        v.Color,
					Quantity:     ci.Quantity,
					UnitPrice:    unit,
					TotalPrice:   line,
				},
				variantID:   v.ID,
				productName: p.Name,
			})
		}

		//配送料（閾値以上は無料）
		var shippingFee int64 = u.shippingFee
		if subtotal >= u.freeShippingThreshold {
			shippingFee = 0
		}

		now := u.clock.Now()

		//クーポン（指定があれば必ず検証する。無効なら注文ごと失敗）
		var couponID *int64
		var discountAmount int64 = 0

		if code := strings.TrimSpace(in.CouponCode); code != "" {
			c, err := r.Coupons().FindByCode(ctx, code)
			if errors.Is(err, repo.ErrNotFound) {
				return NewCodedError(http.StatusBadRequest, CodeCouponNotFound, "coupon not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			userUsed, err := r.CouponUsages().CountByCouponAndUser(ctx, c.ID, userID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			if errCode, msg := checkCoupon(c, userUsed, subtotal, now); errCode != "" {
				return NewCodedError(http.StatusBadRequest, errCode, msg)
			}

			discountAmount = calculateDiscount(c, subtotal, shippingFee)
			couponID = &c.ID
		}

		total := subtotal + shippingFee - discountAmount

		//注文番号の採番（同じTx内。衝突しない）
		orderNumber, err := nextOrderNumber(ctx, r.OrderCounters(), u.orderNumberPrefix, now)
		if err != nil {
			return err
		}

		//注文本体（住所はフィールドごとにコピーして保存）
		order := model.Order{
			OrderNumber:    orderNumber,
			UserID:         userID,
			AddressID:      addr.ID,
			Status:         model.OrderStatusPending,
			PaymentMethod:  model.PaymentMethod(in.PaymentMethod),
			PaymentStatus:  model.PaymentStatusPending,
			Subtotal:       subtotal,
			ShippingFee:    shippingFee,
			DiscountAmount: discountAmount,
			Total:          total,
			CouponID:       couponID,
			Note:           in.Note,
			ShipFullName:   addr.FullName,
			ShipPhone:      addr.Phone,
			ShipStreet:     addr.Street,
			ShipWard:       addr.Ward,
			ShipDistrict:   addr.District,
			ShipCity:       addr.City,
			ShipProvince:   addr.Province,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items := make([]model.OrderItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, l.item)
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//在庫減算。条件付きUPDATEなので並行する注文と競合しても負数にならない。
		//1件でも失敗したらTxごとロールバック。
		for _, l := range lines {
			ok, err := r.Inventory().ReserveStock(ctx, l.variantID, l.item.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewCodedError(http.StatusBadRequest, CodeInsufficientStock,
					fmt.Sprintf("product %q is out of stock", l.productName))
			}
		}

		//カートを空にする
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//クーポン使用を記録（used_countは上限チェック付きの+1）
		if couponID != nil {
			ok, err := r.Coupons().IncrementUsedCount(ctx, *couponID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewCodedError(http.StatusBadRequest, CodeCouponLimitReached, "coupon usage limit reached")
			}

			if err := r.CouponUsages().Create(ctx, model.CouponUsage{
				CouponID: *couponID,
				UserID:   userID,
				OrderID:  orderID,
				UsedAt:   now,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		order.ID = orderID
		out = toOrderOutput(order, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

type CancelOrderOutput struct {
	Message string `json:"message"`
}

// CancelOrderはユーザー自身による注文キャンセル。
// PENDING/CONFIRMEDのときだけ可能。在庫戻しとステータス更新は同じTx。
func (u *OrderUsecase) CancelOrder(ctx context.Context, userID int64, orderID int64) (CancelOrderOutput, error) {
	if userID <= 0 {
		return CancelOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return CancelOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//他人の注文は「存在しない扱い」にする
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		if !model.CanCancelByUser(o.Status) {
			return NewCodedError(http.StatusBadRequest, CodeInvalidStatusTransition, "order cannot be cancelled")
		}

		//在庫戻し
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, it := range items {
			if err := r.Inventory().ReleaseStock(ctx, it.VariantID, it.Quantity); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		now := u.clock.Now()
		if err := r.Orders().UpdateStatus(ctx, orderID, repo.OrderStatusPatch{
			Status:      model.OrderStatusCancelled,
			CancelledAt: &now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})

	if err != nil {
		return CancelOrderOutput{}, err
	}
	return CancelOrderOutput{Message: "order cancelled"}, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, page, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:    it.ProductID,
			VariantID:    it.VariantID,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
			Size:         it.Size,
			Color:        it.Color,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			TotalPrice:   it.TotalPrice,
		})
	}

	return OrderOutput{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID,
		Status:         string(o.Status),
		PaymentMethod:  string(o.PaymentMethod),
		PaymentStatus:  string(o.PaymentStatus),
		Subtotal:       o.Subtotal,
		ShippingFee:    o.ShippingFee,
		DiscountAmount: o.DiscountAmount,
		Total:          o.Total,
		Note:           o.Note,
		ShippingAddress: ShippingAddressOutput{
			FullName: o.ShipFullName,
			Phone:    o.ShipPhone,
			Street:   o.ShipStreet,
			Ward:     o.ShipWard,
			District: o.ShipDistrict,
			City:     o.ShipCity,
			Province: o.ShipProvince,
		},
		PaidAt:      o.PaidAt,
		ShippedAt:   o.ShippedAt,
		DeliveredAt: o.DeliveredAt,
		CancelledAt: o.CancelledAt,
		CreatedAt:   o.CreatedAt,
		Items:       outItems,
	}
}
