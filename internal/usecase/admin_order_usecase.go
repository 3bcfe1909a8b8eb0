package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

// 注文ステータスの管理者操作。遷移の検証と付随処理をここでやる。
type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
	clock     Clock
}

func NewAdminOrderUsecase(tx repo.TransactionManager, auditRepo repo.AuditLogRepository, clock Clock) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, auditRepo: auditRepo, clock: clock}
}

type UpdateOrderStatusInput struct {
	Status string `json:"status"`
}

func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Status != "" && !model.ValidOrderStatus(f.Status) {
		return []OrderOutput{}, 0, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var outs []OrderOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, n, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		total = n

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
		return []OrderOutput{}, 0, err
	}
	return outs, total, nil
}

func (u *AdminOrderUsecase) Get(ctx context.Context, orderID int64) (OrderOutput, error) {
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

// UpdateStatusは注文ステータスを遷移させる。
// 前進のみ。終端（DELIVERED/CANCELLED）からは動かせない。
// 遷移に応じてタイムスタンプ・支払い状態・在庫も同じTxで更新する。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in UpdateOrderStatusInput) (OrderOutput, error) {
	if actorAdminUserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !model.ValidOrderStatus(in.Status) {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	next := model.OrderStatus(in.Status)

	var out OrderOutput
	var beforeStatus model.OrderStatus
	changed := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		beforeStatus = o.Status

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//同じステータスへの更新は何もしない
		if o.Status == next {
			out = toOrderOutput(o, items)
			return nil
		}

		if !model.CanTransition(o.Status, next) {
			return NewCodedError(http.StatusBadRequest, CodeInvalidStatusTransition,
				fmt.Sprintf("cannot change status from %s to %s", o.Status, next))
		}

		now := u.clock.Now()
		patch := repo.OrderStatusPatch{Status: next}

		switch next {
		case model.OrderStatusShipped:
			patch.ShippedAt = &now
			o.ShippedAt = &now
		case model.OrderStatusDelivered:
			patch.DeliveredAt = &now
			o.DeliveredAt = &now
			//代引きは配達完了で支払い済みにする
			if o.PaymentMethod == model.PaymentMethodCOD {
				completed := model.PaymentStatusCompleted
				patch.PaymentStatus = &completed
				patch.PaidAt = &now
				o.PaymentStatus = completed
				o.PaidAt = &now
			}
		case model.OrderStatusCancelled:
			patch.CancelledAt = &now
			o.CancelledAt = &now
			//キャンセルは在庫を戻す
			for _, it := range items {
				if err := r.Inventory().ReleaseStock(ctx, it.VariantID, it.Quantity); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, patch); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = next
		out = toOrderOutput(o, items)
		changed = true
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	if changed {
		//監査ログは失敗しても操作自体は成功扱い（ログ欠落より操作優先）
		_ = u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   fmt.Sprintf(`{"status":%q}`, beforeStatus),
			AfterJSON:    fmt.Sprintf(`{"status":%q}`, next),
			CreatedAt:    u.clock.Now(),
		})
	}

	return out, nil
}
