package usecase

import (
	"context"
	"net/http"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

// 管理者操作ログの閲覧。
type AdminAuditUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAdminAuditUsecase(auditRepo repo.AuditLogRepository) *AdminAuditUsecase {
	return &AdminAuditUsecase{auditRepo: auditRepo}
}

func (u *AdminAuditUsecase) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if f.Action != nil {
		switch *f.Action {
		case model.AuditActionUpdateOrderStatus, model.AuditActionUpdateCoupon:
		default:
			return nil, NewHTTPError(http.StatusBadRequest, "invalid action")
		}
	}
	if f.ResourceType != nil {
		switch *f.ResourceType {
		case model.AuditResourceOrder, model.AuditResourceCoupon:
		default:
			return nil, NewHTTPError(http.StatusBadRequest, "invalid resource_type")
		}
	}

	items, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "failed to list audit logs")
	}
	return items, nil
}
