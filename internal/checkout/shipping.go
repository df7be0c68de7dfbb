package checkout

import (
	"fmt"
	"strings"
)

// ShippingInfo is free text captured on the checkout page. Only FullName,
// Email and Phone are required to place an order.
type ShippingInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

func (s ShippingInfo) Ready() bool {
	return strings.TrimSpace(s.FullName) != "" &&
		strings.TrimSpace(s.Email) != "" &&
		strings.TrimSpace(s.Phone) != ""
}

// Missing lists the required fields that are still empty.
func (s ShippingInfo) Missing() []string {
	var out []string
	if strings.TrimSpace(s.FullName) == "" {
		out = append(out, "fullName")
	}
	if strings.TrimSpace(s.Email) == "" {
		out = append(out, "email")
	}
	if strings.TrimSpace(s.Phone) == "" {
		out = append(out, "phone")
	}
	return out
}

type PaymentMethod string

const (
	Card       PaymentMethod = "card"
	UPI        PaymentMethod = "upi"
	NetBanking PaymentMethod = "netbanking"
)

var PaymentMethods = []PaymentMethod{Card, UPI, NetBanking}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range PaymentMethods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidPaymentMethod)
}

func (m PaymentMethod) Label() string {
	switch m {
	case Card:
		return "Credit/Debit Card"
	case UPI:
		return "UPI"
	case NetBanking:
		return "Net Banking"
	default:
		return string(m)
	}
}
