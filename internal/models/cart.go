package models

import (
	"time"

	"github.com/Skotchmaster/artisan_market/internal/cart"
)

// CartSnapshot is the last state of a session's cart.
type CartSnapshot struct {
	SessionID string      `gorm:"primaryKey;size:64"            json:"session_id"`
	Items     []cart.Line `gorm:"serializer:json;type:text"     json:"items"`
	Total     int64       `gorm:"not null;default:0"            json:"total"`
	UpdatedAt time.Time   `gorm:"not null"                      json:"updated_at"`
}

func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}

func NewCartSnapshot(sessionID string, s cart.State) *CartSnapshot {
	return &CartSnapshot{SessionID: sessionID, Items: s.Items, Total: s.Total}
}

// State rebuilds the cart; the stored total is ignored.
func (c *CartSnapshot) State() cart.State {
	return cart.Restore(c.Items)
}
