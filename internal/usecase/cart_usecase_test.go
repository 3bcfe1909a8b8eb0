package usecase

import (
	"context"
	"testing"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartUsecase() (*CartUsecase, *CartRepoMock, *CartItemRepoMock, *ProductRepoMock) {
	carts := new(CartRepoMock)
	items := new(CartItemRepoMock)
	products := new(ProductRepoMock)
	uc := NewCartUsecase(carts, items, products)
	return uc, carts, items, products
}

func TestGetCart_ComputesTotals(t *testing.T) {
	uc, carts, items, products := newCartUsecase()

	carts.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 5, UserID: 7}, nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 100, VariantID: 200, Quantity: 2},
		{ID: 2, CartID: 5, ProductID: 101, VariantID: 201, Quantity: 1},
	}, nil)

	sale := int64(80000)
	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, Name: "Ao thun", Price: 100000, IsActive: true}, nil)
	products.On("FindByID", mock.Anything, int64(101)).Return(model.Product{ID: 101, Name: "Quan jean", Price: 100000, SalePrice: &sale, IsActive: true}, nil)
	products.On("FindVariantByID", mock.Anything, int64(200)).Return(model.ProductVariant{ID: 200, ProductID: 100, Size: "M", Color: "Black", Stock: 10}, nil)
	products.On("FindVariantByID", mock.Anything, int64(201)).Return(model.ProductVariant{ID: 201, ProductID: 101, Size: "32", Color: "Blue", Stock: 3}, nil)
	products.On("FindMainImageURL", mock.Anything, mock.Anything).Return("", nil)

	out, err := uc.GetCart(context.Background(), 7)
	assert.NoError(t, err)
	assert.Len(t, out.Items, 2)
	//100000*2 + 80000*1（セール価格）
	assert.Equal(t, int64(280000), out.Subtotal)
	assert.Equal(t, int64(3), out.ItemCount)
}

// 削除済み商品は表示から除く
func TestGetCart_SkipsDeletedProducts(t *testing.T) {
	uc, carts, items, products := newCartUsecase()

	carts.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 5, UserID: 7}, nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 100, VariantID: 200, Quantity: 1},
	}, nil)
	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{}, repo.ErrNotFound)

	out, err := uc.GetCart(context.Background(), 7)
	assert.NoError(t, err)
	assert.Len(t, out.Items, 0)
	assert.Equal(t, int64(0), out.Subtotal)
}

func TestAddToCart_Success(t *testing.T) {
	uc, carts, items, products := newCartUsecase()

	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, Name: "Ao thun", Price: 100000, IsActive: true}, nil)
	products.On("FindVariantByID", mock.Anything, int64(200)).Return(model.ProductVariant{ID: 200, ProductID: 100, Size: "M", Color: "Black", Stock: 10}, nil)
	products.On("FindMainImageURL", mock.Anything, int64(100)).Return("", nil)
	carts.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 5, UserID: 7}, nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil).Once()
	items.On("UpsertByCartAndVariant", mock.Anything, int64(5), int64(100), int64(200), int64(2)).Return(nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 100, VariantID: 200, Quantity: 2},
	}, nil)

	out, err := uc.AddToCart(context.Background(), 7, AddToCartInput{ProductID: 100, VariantID: 200, Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.ItemCount)

	items.AssertExpectations(t)
}

// カート内の既存分と合わせて在庫を超える追加は拒否
func TestAddToCart_ExceedsStockWithExisting(t *testing.T) {
	uc, carts, items, products := newCartUsecase()

	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, IsActive: true}, nil)
	products.On("FindVariantByID", mock.Anything, int64(200)).Return(model.ProductVariant{ID: 200, ProductID: 100, Stock: 5}, nil)
	carts.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 5, UserID: 7}, nil)
	items.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 100, VariantID: 200, Quantity: 4},
	}, nil)

	_, err := uc.AddToCart(context.Background(), 7, AddToCartInput{ProductID: 100, VariantID: 200, Quantity: 2})
	assertErrCode(t, err, CodeInsufficientStock)

	items.AssertNotCalled(t, "UpsertByCartAndVariant", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// 別商品のバリアントIDは拒否
func TestAddToCart_VariantProductMismatch(t *testing.T) {
	uc, _, _, products := newCartUsecase()

	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, IsActive: true}, nil)
	products.On("FindVariantByID", mock.Anything, int64(999)).Return(model.ProductVariant{ID: 999, ProductID: 555, Stock: 10}, nil)

	_, err := uc.AddToCart(context.Background(), 7, AddToCartInput{ProductID: 100, VariantID: 999, Quantity: 1})
	assertErrContains(t, err, "does not belong")
}

func TestAddToCart_InactiveProduct(t *testing.T) {
	uc, _, _, products := newCartUsecase()

	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, IsActive: false}, nil)

	_, err := uc.AddToCart(context.Background(), 7, AddToCartInput{ProductID: 100, VariantID: 200, Quantity: 1})
	assertErrContains(t, err, "not available")
}

func TestUpdateItem_QuantityBelowOne(t *testing.T) {
	uc, _, _, _ := newCartUsecase()

	_, err := uc.UpdateItem(context.Background(), 7, 1, UpdateCartItemInput{Quantity: 0})
	assertErrContains(t, err, "quantity")
}

// 他人の明細は404
func TestUpdateItem_NotOwned(t *testing.T) {
	uc, _, items, _ := newCartUsecase()

	items.On("IsOwnedByUser", mock.Anything, int64(1), int64(7)).Return(false, nil)

	_, err := uc.UpdateItem(context.Background(), 7, 1, UpdateCartItemInput{Quantity: 2})
	assertErrContains(t, err, "not found")
}

func TestRemoveItem_NotOwned(t *testing.T) {
	uc, _, items, _ := newCartUsecase()

	items.On("IsOwnedByUser", mock.Anything, int64(1), int64(7)).Return(false, nil)

	_, err := uc.RemoveItem(context.Background(), 7, 1)
	assertErrContains(t, err, "not found")

	items.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}
