package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CartRepository interface {
	//ユーザーのカートを返す（無ければ作る）
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)

	//明細を全削除（注文確定後）
	Clear(ctx context.Context, cartID int64) error
}
