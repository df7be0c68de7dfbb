package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artisan_market/internal/service"
	"github.com/Skotchmaster/artisan_market/internal/transport"
	"github.com/Skotchmaster/artisan_market/pkg/currency"
	"github.com/Skotchmaster/artisan_market/pkg/logging"
	"github.com/Skotchmaster/artisan_market/pkg/middleware/session"
)

type CartHTTP struct {
	Svc      *service.CartService
	Currency currency.Currency
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	st := h.Svc.Get(ctx, session.Key(c))
	return c.JSON(http.StatusOK, transport.NewCartResponse(st, h.Currency))
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_item_error", "invalid body", err)
	}
	if req.ProductID <= 0 {
		return badRequest(l, "add_item_error", "product_id required", nil)
	}

	st, err := h.Svc.AddProduct(ctx, session.Key(c), req.ProductID)
	if err != nil {
		return fail(l, "add_item_error", err)
	}

	l.Info("item_added", "product_id", req.ProductID, "total", st.Total)
	return c.JSON(http.StatusCreated, transport.NewCartResponse(st, h.Currency))
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "update_quantity_error", "id is not an integer", err)
	}
	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_quantity_error", "invalid body", err)
	}
	if req.Quantity == nil {
		return badRequest(l, "update_quantity_error", "quantity required", nil)
	}

	st, err := h.Svc.UpdateQuantity(ctx, session.Key(c), id, *req.Quantity)
	if err != nil {
		return fail(l, "update_quantity_error", err)
	}
	l.Info("quantity_updated", "product_id", id, "quantity", *req.Quantity)
	return c.JSON(http.StatusOK, transport.NewCartResponse(st, h.Currency))
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "remove_item_error", "id is not an integer", err)
	}

	st, err := h.Svc.Remove(ctx, session.Key(c), id)
	if err != nil {
		return fail(l, "remove_item_error", err)
	}
	l.Info("item_removed", "product_id", id)
	return c.JSON(http.StatusOK, transport.NewCartResponse(st, h.Currency))
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	st, err := h.Svc.Clear(ctx, session.Key(c))
	if err != nil {
		return fail(l, "clear_cart_error", err)
	}
	l.Info("cart_cleared")
	return c.JSON(http.StatusOK, transport.NewCartResponse(st, h.Currency))
}
