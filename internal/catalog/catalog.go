// Package catalog reads products and categories from the product API or from
// its Elasticsearch index.
package catalog

import (
	"context"
	"errors"

	"github.com/Skotchmaster/artisan_market/internal/cart"
)

var (
	ErrNotFound = errors.New("not found")
	ErrReadOnly = errors.New("catalog backend is read-only")
)

const (
	placeholderImage = "/placeholder.svg"
	unknownArtist    = "Verified Artisan"
)

type Product struct {
	ID          int    `json:"id"`
	CategoryID  int    `json:"category_id"`
	ArtistID    int    `json:"artist_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Artist      string `json:"artist,omitempty"`
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ArtistID    int    `json:"artist_id"`
}

// Filter narrows a product listing. Zero values are ignored. Prices are the
// half-open range [MinPrice, MaxPrice). Page and Size follow util.Paginate.
type Filter struct {
	ArtistID     int
	CategoryID   int
	ProfessionID int
	MinPrice     int64
	MaxPrice     int64
	Page         int
	Size         int
}

func (f Filter) priceMatches(price int64) bool {
	if price < f.MinPrice {
		return false
	}
	return f.MaxPrice == 0 || price < f.MaxPrice
}

type CreateCategoryInput struct {
	Name        string
	Description string
}

type CreateProductInput struct {
	CategoryID   int
	Name         string
	Description  string
	Price        int64
	Colors       []string
	Sizes        []string
	MaterialType string
}

type Catalog interface {
	ListProducts(ctx context.Context, f Filter) ([]Product, error)
	GetProduct(ctx context.Context, id int) (Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, in CreateCategoryInput) (Category, error)
	CreateProduct(ctx context.Context, in CreateProductInput) (Product, error)
}

// ToCartItem is the line the storefront adds for a product.
func ToCartItem(p Product) cart.Product {
	image := p.Image
	if image == "" {
		image = placeholderImage
	}
	artist := p.Artist
	if artist == "" {
		artist = unknownArtist
	}
	return cart.Product{
		ID:     p.ID,
		Name:   p.Name,
		Price:  p.Price,
		Image:  image,
		Artist: artist,
	}
}

type tokenKey struct{}

// WithAccessToken attaches the caller's access token so authenticated calls
// can forward it to the product API.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func accessToken(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}
