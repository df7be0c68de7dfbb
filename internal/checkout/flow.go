package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/artisan_market/internal/cart"
)

var (
	ErrNotReady             = errors.New("checkout not ready")
	ErrInProgress           = errors.New("checkout in progress")
	ErrCompleted            = errors.New("checkout already complete")
	ErrNotEditable          = errors.New("checkout not editable")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

type Status int

const (
	Editing Status = iota
	Processing
	Complete
)

func (s Status) String() string {
	switch s {
	case Editing:
		return "editing"
	case Processing:
		return "processing"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for _, v := range []Status{Editing, Processing, Complete} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown checkout status %q", b)
}

type OrderResult struct {
	Success          bool          `json:"success"`
	ConfirmationID   uuid.UUID     `json:"confirmation_id"`
	PaymentReference string        `json:"payment_reference"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	Summary          Summary       `json:"summary"`
	Items            []cart.Line   `json:"items"`
	PlacedAt         time.Time     `json:"placed_at"`
}

type Option func(*Flow)

func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// OnComplete registers a hook that runs after a successful submit, outside
// the flow's lock.
func OnComplete(fn func(OrderResult)) Option {
	return func(f *Flow) { f.onComplete = append(f.onComplete, fn) }
}

// Flow is the checkout state machine for one cart. Shipping details live only
// as long as the flow.
type Flow struct {
	store      *cart.Store
	gateway    Gateway
	now        func() time.Time
	onComplete []func(OrderResult)

	mu       sync.Mutex
	status   Status
	shipping ShippingInfo
	method   PaymentMethod
	result   *OrderResult
}

func New(store *cart.Store, gateway Gateway, opts ...Option) *Flow {
	f := &Flow{
		store:   store,
		gateway: gateway,
		now:     time.Now,
		method:  Card,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *Flow) Shipping() ShippingInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shipping
}

func (f *Flow) PaymentMethod() PaymentMethod {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.method
}

// Summary prices the cart as it is now.
func (f *Flow) Summary() Summary {
	return Summarize(f.store.State())
}

// Result is nil until the flow completes.
func (f *Flow) Result() *OrderResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result == nil {
		return nil
	}
	r := *f.result
	return &r
}

func (f *Flow) SetShipping(info ShippingInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != Editing {
		return fmt.Errorf("set shipping while %s: %w", f.status, ErrNotEditable)
	}
	f.shipping = info
	return nil
}

func (f *Flow) SetPaymentMethod(m PaymentMethod) error {
	if _, err := ParsePaymentMethod(string(m)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != Editing {
		return fmt.Errorf("set payment method while %s: %w", f.status, ErrNotEditable)
	}
	f.method = m
	return nil
}

func (f *Flow) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status == Editing && f.shipping.Ready() && !f.store.State().IsEmpty()
}

// Submit charges the gateway for the current cart, takes the charged lines
// out of the cart and moves the flow to Complete. Lines added while the
// charge runs stay in the cart. Once the charge starts it ignores
// cancellation of ctx.
func (f *Flow) Submit(ctx context.Context) (*OrderResult, error) {
	f.mu.Lock()
	switch f.status {
	case Processing:
		f.mu.Unlock()
		return nil, ErrInProgress
	case Complete:
		f.mu.Unlock()
		return nil, ErrCompleted
	}
	state := f.store.State()
	if !f.shipping.Ready() || state.IsEmpty() {
		f.mu.Unlock()
		return nil, ErrNotReady
	}
	f.status = Processing
	shipping, method := f.shipping, f.method
	f.mu.Unlock()

	summary := Summarize(state)
	receipt, err := f.gateway.Charge(context.WithoutCancel(ctx), Payment{
		Amount:   summary.GrandTotal,
		Method:   method,
		Shipping: shipping,
	})
	if err != nil {
		f.mu.Lock()
		f.status = Editing
		f.mu.Unlock()
		return nil, fmt.Errorf("charge: %w", err)
	}

	f.store.Apply(settle(state.Items))

	result := OrderResult{
		Success:          true,
		ConfirmationID:   uuid.New(),
		PaymentReference: receipt.Reference,
		PaymentMethod:    method,
		Summary:          summary,
		Items:            state.Items,
		PlacedAt:         f.now().UTC(),
	}

	f.mu.Lock()
	f.status = Complete
	f.shipping = ShippingInfo{}
	f.result = &result
	hooks := f.onComplete
	f.mu.Unlock()

	for _, h := range hooks {
		h(result)
	}
	out := result
	return &out, nil
}

// settle plans the removal of charged lines. A cart holding nothing but the
// charged lines is cleared in one action.
func settle(charged []cart.Line) func(cart.State) []cart.Action {
	paid := make(map[int]int, len(charged))
	for _, l := range charged {
		paid[l.ID] += l.Quantity
	}
	return func(cur cart.State) []cart.Action {
		var (
			actions []cart.Action
			kept    bool
		)
		for _, l := range cur.Items {
			q, ok := paid[l.ID]
			switch {
			case !ok:
				kept = true
			case l.Quantity > q:
				kept = true
				actions = append(actions, cart.UpdateQuantity{ID: l.ID, Quantity: l.Quantity - q})
			default:
				actions = append(actions, cart.RemoveItem{ID: l.ID})
			}
		}
		if !kept {
			return []cart.Action{cart.ClearCart{}}
		}
		return actions
	}
}
