package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反（email・クーポンコードの重複など）
var ErrDuplicate = errors.New("duplicate")

// 商品カタログの読み取りだけを約束（このコアでは編集しない）。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)

	//バリアント（サイズ×カラー）を1件取得
	FindVariantByID(ctx context.Context, variantID int64) (model.ProductVariant, error)

	//メイン画像URLを1件取得（無ければ空文字）
	FindMainImageURL(ctx context.Context, productID int64) (string, error)
}
