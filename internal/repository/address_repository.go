package repository

import (
	"context"

	"shop/internal/domain/model"
)

// 住所(Address)を保存・取得する窓口
type AddressRepository interface {
	Create(ctx context.Context, address model.Address) (model.Address, error)

	//ユーザーが持つ住所一覧を返す
	ListByUserID(ctx context.Context, userID int64) ([]model.Address, error)

	//本人の住所だけを1件取得（他人のものはErrNotFound）
	FindUserAddress(ctx context.Context, userID int64, addressID int64) (model.Address, error)

	Update(ctx context.Context, address model.Address) error
	Delete(ctx context.Context, userID int64, addressID int64) error

	//デフォルト住所の切り替えを行う。
	SetDefault(ctx context.Context, userID int64, addressID int64) error
}
