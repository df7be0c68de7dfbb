package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const DefaultDelay = 3 * time.Second

type Payment struct {
	Amount   int64
	Method   PaymentMethod
	Shipping ShippingInfo
}

type Receipt struct {
	Reference  string
	ApprovedAt time.Time
}

// Gateway charges a payment. It stands in for a real payment provider.
type Gateway interface {
	Charge(ctx context.Context, p Payment) (Receipt, error)
}

// SimulatedGateway approves every payment after Delay.
type SimulatedGateway struct {
	Delay time.Duration
}

func (g SimulatedGateway) Charge(ctx context.Context, p Payment) (Receipt, error) {
	t := time.NewTimer(g.Delay)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	}

	return Receipt{
		Reference:  uuid.NewString(),
		ApprovedAt: time.Now().UTC(),
	}, nil
}
