package checkout

import (
	"math"

	"github.com/Skotchmaster/artisan_market/internal/cart"
)

// TaxRate is the flat GST rate applied at checkout.
const TaxRate = 0.18

type Summary struct {
	Subtotal   int64 `json:"subtotal"`
	Shipping   int64 `json:"shipping"`
	Tax        int64 `json:"tax"`
	GrandTotal int64 `json:"grand_total"`
	ItemCount  int   `json:"item_count"`
}

// Tax multiplies in float64 and rounds half away from zero, which matches
// the storefront's Math.round for every non-negative subtotal.
func Tax(subtotal int64) int64 {
	return int64(math.Round(float64(subtotal) * TaxRate))
}

// Summarize prices a cart. Shipping is free.
func Summarize(s cart.State) Summary {
	tax := Tax(s.Total)
	return Summary{
		Subtotal:   s.Total,
		Shipping:   0,
		Tax:        tax,
		GrandTotal: s.Total + tax,
		ItemCount:  s.ItemCount(),
	}
}
