package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/artisan_market/internal/cart"
	"github.com/Skotchmaster/artisan_market/internal/checkout"
)

type CheckoutView struct {
	Status        checkout.Status
	Items         []cart.Line
	Summary       checkout.Summary
	Shipping      checkout.ShippingInfo
	PaymentMethod checkout.PaymentMethod
	CanSubmit     bool
	Missing       []string
}

type CheckoutService struct {
	Sessions *Sessions
}

// Open returns the checkout for key, starting a new one when the previous
// checkout completed.
func (h *CheckoutService) Open(ctx context.Context, key string) CheckoutView {
	f := h.Sessions.flow(ctx, key, true)
	return h.view(ctx, key, f)
}

func (h *CheckoutService) SetShipping(ctx context.Context, key string, info checkout.ShippingInfo) (CheckoutView, error) {
	f := h.Sessions.flow(ctx, key, false)
	if err := f.SetShipping(info); err != nil {
		return CheckoutView{}, mapCheckoutErr(err)
	}
	return h.view(ctx, key, f), nil
}

func (h *CheckoutService) SetPaymentMethod(ctx context.Context, key, method string) (CheckoutView, error) {
	m, err := checkout.ParsePaymentMethod(method)
	if err != nil {
		return CheckoutView{}, mapCheckoutErr(err)
	}
	f := h.Sessions.flow(ctx, key, false)
	if err := f.SetPaymentMethod(m); err != nil {
		return CheckoutView{}, mapCheckoutErr(err)
	}
	return h.view(ctx, key, f), nil
}

// Submit places the order. It blocks for the payment delay.
func (h *CheckoutService) Submit(ctx context.Context, key string) (*checkout.OrderResult, error) {
	f := h.Sessions.flow(ctx, key, false)
	res, err := f.Submit(ctx)
	if err != nil {
		return nil, mapCheckoutErr(err)
	}
	return res, nil
}

func (h *CheckoutService) view(ctx context.Context, key string, f *checkout.Flow) CheckoutView {
	st := h.Sessions.Store(ctx, key).State()
	shipping := f.Shipping()
	return CheckoutView{
		Status:        f.Status(),
		Items:         st.Items,
		Summary:       checkout.Summarize(st),
		Shipping:      shipping,
		PaymentMethod: f.PaymentMethod(),
		CanSubmit:     f.CanSubmit(),
		Missing:       shipping.Missing(),
	}
}

func mapCheckoutErr(err error) error {
	switch {
	case errors.Is(err, checkout.ErrNotReady), errors.Is(err, checkout.ErrInvalidPaymentMethod):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	case errors.Is(err, checkout.ErrInProgress), errors.Is(err, checkout.ErrCompleted), errors.Is(err, checkout.ErrNotEditable):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return err
	}
}
