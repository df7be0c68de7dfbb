package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/artisan_market/internal/cart"
	"github.com/Skotchmaster/artisan_market/internal/catalog"
	"github.com/Skotchmaster/artisan_market/internal/checkout"
	"github.com/Skotchmaster/artisan_market/internal/service"
	"github.com/Skotchmaster/artisan_market/pkg/currency"
)

type AddItemRequest struct {
	ProductID int `json:"product_id"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type PaymentMethodRequest struct {
	Method string `json:"method"`
}

type CreateCategoryRequest struct {
	Name        string `json:"categoryName"`
	Description string `json:"categoryDescription"`
}

type CreateProductRequest struct {
	CategoryID   int      `json:"categoryId"`
	Name         string   `json:"productName"`
	Description  string   `json:"productDescription"`
	Price        int64    `json:"productPrice"`
	Colors       []string `json:"availableColors"`
	Sizes        []string `json:"sizes"`
	MaterialType string   `json:"materialType"`
}

func (r CreateProductRequest) Input() catalog.CreateProductInput {
	return catalog.CreateProductInput{
		CategoryID:   r.CategoryID,
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Colors:       r.Colors,
		Sizes:        r.Sizes,
		MaterialType: r.MaterialType,
	}
}

type CartResponse struct {
	Items          []cart.Line `json:"items"`
	Total          int64       `json:"total"`
	FormattedTotal string      `json:"formatted_total"`
	ItemCount      int         `json:"item_count"`
	Quantity       int         `json:"quantity"`
}

func NewCartResponse(s cart.State, cur currency.Currency) CartResponse {
	return CartResponse{
		Items:          s.Items,
		Total:          s.Total,
		FormattedTotal: currency.FormatPrice(s.Total, cur),
		ItemCount:      s.ItemCount(),
		Quantity:       s.Quantity(),
	}
}

type FormattedSummary struct {
	Subtotal   string `json:"subtotal"`
	Shipping   string `json:"shipping"`
	Tax        string `json:"tax"`
	GrandTotal string `json:"grand_total"`
}

type SummaryResponse struct {
	checkout.Summary
	Formatted FormattedSummary `json:"formatted"`
}

func NewSummaryResponse(s checkout.Summary, cur currency.Currency) SummaryResponse {
	shipping := "Free"
	if s.Shipping != 0 {
		shipping = currency.FormatPrice(s.Shipping, cur)
	}
	return SummaryResponse{
		Summary: s,
		Formatted: FormattedSummary{
			Subtotal:   currency.FormatPrice(s.Subtotal, cur),
			Shipping:   shipping,
			Tax:        currency.FormatPrice(s.Tax, cur),
			GrandTotal: currency.FormatPrice(s.GrandTotal, cur),
		},
	}
}

type PaymentOption struct {
	Value checkout.PaymentMethod `json:"value"`
	Label string                 `json:"label"`
}

func PaymentOptions() []PaymentOption {
	out := make([]PaymentOption, 0, len(checkout.PaymentMethods))
	for _, m := range checkout.PaymentMethods {
		out = append(out, PaymentOption{Value: m, Label: m.Label()})
	}
	return out
}

type CheckoutResponse struct {
	Status         checkout.Status        `json:"status"`
	Items          []cart.Line            `json:"items"`
	Summary        SummaryResponse        `json:"summary"`
	Shipping       checkout.ShippingInfo  `json:"shipping"`
	PaymentMethod  checkout.PaymentMethod `json:"payment_method"`
	PaymentMethods []PaymentOption        `json:"payment_methods"`
	CanSubmit      bool                   `json:"can_submit"`
	Missing        []string               `json:"missing,omitempty"`
}

func NewCheckoutResponse(v service.CheckoutView, cur currency.Currency) CheckoutResponse {
	return CheckoutResponse{
		Status:         v.Status,
		Items:          v.Items,
		Summary:        NewSummaryResponse(v.Summary, cur),
		Shipping:       v.Shipping,
		PaymentMethod:  v.PaymentMethod,
		PaymentMethods: PaymentOptions(),
		CanSubmit:      v.CanSubmit,
		Missing:        v.Missing,
	}
}

type OrderResponse struct {
	Success          bool                   `json:"success"`
	ConfirmationID   uuid.UUID              `json:"confirmation_id"`
	PaymentReference string                 `json:"payment_reference"`
	PaymentMethod    checkout.PaymentMethod `json:"payment_method"`
	PaymentLabel     string                 `json:"payment_label"`
	Summary          SummaryResponse        `json:"summary"`
	Items            []cart.Line            `json:"items"`
	PlacedAt         time.Time              `json:"placed_at"`
}

func NewOrderResponse(r checkout.OrderResult, cur currency.Currency) OrderResponse {
	return OrderResponse{
		Success:          r.Success,
		ConfirmationID:   r.ConfirmationID,
		PaymentReference: r.PaymentReference,
		PaymentMethod:    r.PaymentMethod,
		PaymentLabel:     r.PaymentMethod.Label(),
		Summary:          NewSummaryResponse(r.Summary, cur),
		Items:            r.Items,
		PlacedAt:         r.PlacedAt,
	}
}

type ProductResponse struct {
	catalog.Product
	FormattedPrice string `json:"formatted_price"`
}

func NewProductResponse(p catalog.Product, cur currency.Currency) ProductResponse {
	return ProductResponse{Product: p, FormattedPrice: currency.FormatPrice(p.Price, cur)}
}

type PageMeta struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

type ProductsResponse struct {
	Data []ProductResponse `json:"data"`
	Meta PageMeta          `json:"meta"`
}

type ConvertResponse struct {
	USD       float64 `json:"usd"`
	INR       int64   `json:"inr"`
	Formatted string  `json:"formatted"`
}
