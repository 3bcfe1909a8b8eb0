package usecase

import (
	"context"
	"errors"
	"net/http"

	repo "shop/internal/repository"
)

type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type CartItemOutput struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product_id"`
	VariantID    int64  `json:"variant_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	Size         string `json:"size"`
	Color        string `json:"color"`
	Quantity     int64  `json:"quantity"`
	Stock        int64  `json:"stock"`
	UnitPrice    int64  `json:"unit_price"`
	TotalPrice   int64  `json:"total_price"`
}

type CartOutput struct {
	ID        int64            `json:"id"`
	Items     []CartItemOutput `json:"items"`
	Subtotal  int64            `json:"subtotal"`
	ItemCount int64            `json:"item_count"`
}

type AddToCartInput struct {
	ProductID int64 `json:"product_id"`
	VariantID int64 `json:"variant_id"`
	Quantity  int64 `json:"quantity"`
}

type UpdateCartItemInput struct {
	Quantity int64 `json:"quantity"`
}

// GetCartはカートを返す（無ければ空カートを作る）。
// 価格は現在の商品価格で計算し直す。注文時のような固定はしない。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := CartOutput{ID: cart.ID, Items: make([]CartItemOutput, 0, len(items))}

	for _, ci := range items {
		p, err := u.productRepo.FindByID(ctx, ci.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			//削除済み商品はカート表示から除く
			continue
		}
		if err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		v, err := u.productRepo.FindVariantByID(ctx, ci.VariantID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		imageURL, err := u.productRepo.FindMainImageURL(ctx, p.ID)
		if err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		unit := p.SellingPrice()
		line := unit * ci.Quantity

		out.Items = append(out.Items, CartItemOutput{
			ID:           ci.ID,
			ProductID:    p.ID,
			VariantID:    v.ID,
			ProductName:  p.Name,
			ProductImage: imageURL,
			Size:         v.Size,
			Color:        v.Color,
			Quantity:     ci.Quantity,
			Stock:        v.Stock,
			UnitPrice:    unit,
			TotalPrice:   line,
		})
		out.Subtotal += line
		out.ItemCount += ci.Quantity
	}

	return out, nil
}

// AddToCartは商品をカートに入れる。同じバリアントは数量加算。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddToCartInput) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Quantity < 1 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "product is not available")
	}

	v, err := u.productRepo.FindVariantByID(ctx, in.VariantID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "variant not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//別商品のバリアントIDを混ぜられないように
	if v.ProductID != p.ID {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "variant does not belong to product")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//既存分と合わせて在庫を超える数はカートに入れない
	newQty := in.Quantity
	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	for _, ci := range items {
		if ci.VariantID == in.VariantID {
			newQty += ci.Quantity
			break
		}
	}
	if newQty > v.Stock {
		return CartOutput{}, NewCodedError(http.StatusBadRequest, CodeInsufficientStock, "not enough stock")
	}

	if err := u.cartItemRepo.UpsertByCartAndVariant(ctx, cart.ID, p.ID, v.ID, in.Quantity); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, userID)
}

func (u *CartUsecase) UpdateItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Quantity < 1 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
	}

	if err := u.mustOwnItem(ctx, userID, cartItemID); err != nil {
		return CartOutput{}, err
	}

	ci, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	v, err := u.productRepo.FindVariantByID(ctx, ci.VariantID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "variant not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if in.Quantity > v.Stock {
		return CartOutput{}, NewCodedError(http.StatusBadRequest, CodeInsufficientStock, "not enough stock")
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, userID)
}

func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.mustOwnItem(ctx, userID, cartItemID); err != nil {
		return CartOutput{}, err
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, userID)
}

// 他人のカート明細は「存在しない扱い」にする
func (u *CartUsecase) mustOwnItem(ctx context.Context, userID int64, cartItemID int64) error {
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ok, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	return nil
}
