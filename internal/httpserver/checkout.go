package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artisan_market/internal/checkout"
	"github.com/Skotchmaster/artisan_market/internal/service"
	"github.com/Skotchmaster/artisan_market/internal/transport"
	"github.com/Skotchmaster/artisan_market/pkg/currency"
	"github.com/Skotchmaster/artisan_market/pkg/logging"
	"github.com/Skotchmaster/artisan_market/pkg/middleware/session"
)

type CheckoutHTTP struct {
	Svc      *service.CheckoutService
	Currency currency.Currency
}

func (h *CheckoutHTTP) GetCheckout(c echo.Context) error {
	ctx := c.Request().Context()
	v := h.Svc.Open(ctx, session.Key(c))
	return c.JSON(http.StatusOK, transport.NewCheckoutResponse(v, h.Currency))
}

func (h *CheckoutHTTP) SetShipping(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.set_shipping")

	var req checkout.ShippingInfo
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "set_shipping_error", "invalid body", err)
	}

	v, err := h.Svc.SetShipping(ctx, session.Key(c), req)
	if err != nil {
		return fail(l, "set_shipping_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewCheckoutResponse(v, h.Currency))
}

func (h *CheckoutHTTP) SetPaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.set_payment_method")

	var req transport.PaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "set_payment_method_error", "invalid body", err)
	}

	v, err := h.Svc.SetPaymentMethod(ctx, session.Key(c), req.Method)
	if err != nil {
		return fail(l, "set_payment_method_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewCheckoutResponse(v, h.Currency))
}

func (h *CheckoutHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.submit")

	res, err := h.Svc.Submit(ctx, session.Key(c))
	if err != nil {
		return fail(l, "submit_error", err)
	}

	l.Info("checkout_complete", "confirmation_id", res.ConfirmationID, "grand_total", res.Summary.GrandTotal)
	return c.JSON(http.StatusCreated, transport.NewOrderResponse(*res, h.Currency))
}
