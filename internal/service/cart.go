package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/artisan_market/internal/cart"
	"github.com/Skotchmaster/artisan_market/internal/catalog"
)

type CartService struct {
	Sessions *Sessions
	Catalog  catalog.Catalog
}

func (h *CartService) Get(ctx context.Context, key string) cart.State {
	return h.Sessions.Store(ctx, key).State()
}

// AddProduct resolves productID through the catalog and adds one unit.
func (h *CartService) AddProduct(ctx context.Context, key string, productID int) (cart.State, error) {
	if productID <= 0 {
		return cart.State{}, fmt.Errorf("product_id must be positive: %w", ErrValidation)
	}

	p, err := h.Catalog.GetProduct(ctx, productID)
	if errors.Is(err, catalog.ErrNotFound) {
		return cart.State{}, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return cart.State{}, fmt.Errorf("resolve product %d: %w", productID, err)
	}

	return h.dispatch(ctx, key, cart.AddItem{Item: catalog.ToCartItem(p)})
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (h *CartService) UpdateQuantity(ctx context.Context, key string, id, quantity int) (cart.State, error) {
	return h.dispatch(ctx, key, cart.UpdateQuantity{ID: id, Quantity: quantity})
}

func (h *CartService) Remove(ctx context.Context, key string, id int) (cart.State, error) {
	return h.dispatch(ctx, key, cart.RemoveItem{ID: id})
}

func (h *CartService) Clear(ctx context.Context, key string) (cart.State, error) {
	return h.dispatch(ctx, key, cart.ClearCart{})
}

// dispatch refuses changes while the session's payment is in flight.
func (h *CartService) dispatch(ctx context.Context, key string, a cart.Action) (cart.State, error) {
	sess := h.Sessions.get(ctx, key)
	if sess.charging() {
		return cart.State{}, fmt.Errorf("%s during payment: %w", a.Type(), ErrConflict)
	}
	return sess.store.Dispatch(a), nil
}
