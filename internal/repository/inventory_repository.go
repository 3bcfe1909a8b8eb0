package repository

import "context"

// 在庫を変更できる唯一の窓口。
type InventoryRepository interface {
	// 在庫が足りるときだけ減算（チェックと減算は1文で行う）
	ReserveStock(ctx context.Context, variantID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセル）
	ReleaseStock(ctx context.Context, variantID int64, qty int64) error
}
