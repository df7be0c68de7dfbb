package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// envelope is the product API response wrapper.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

type apiMedia struct {
	ImageURL  string `json:"imageUrl"`
	MediaType string `json:"mediaType"`
}

type apiCategory struct {
	ID                  int     `json:"id"`
	CategoryName        string  `json:"categoryName"`
	CategoryDescription *string `json:"categoryDescription"`
	ArtistID            int     `json:"artistId"`
	ArtistName          string  `json:"artistName,omitempty"`
}

// apiProduct is both the API payload and the indexed document.
type apiProduct struct {
	ID                 int             `json:"id"`
	CategoryID         int             `json:"categoryId"`
	ProductName        string          `json:"productName"`
	ProductDescription *string         `json:"productDescription"`
	BasePrice          decimal.Decimal `json:"basePrice"`
	ProductMedia       []apiMedia      `json:"productMedia"`
	Category           *apiCategory    `json:"category"`
}

func (a apiProduct) toProduct() Product {
	p := Product{
		ID:         a.ID,
		CategoryID: a.CategoryID,
		Name:       a.ProductName,
		Price:      a.BasePrice.Round(0).IntPart(),
	}
	if a.ProductDescription != nil {
		p.Description = *a.ProductDescription
	}
	for _, m := range a.ProductMedia {
		if m.ImageURL != "" && (m.MediaType == "" || m.MediaType == "image") {
			p.Image = m.ImageURL
			break
		}
	}
	if a.Category != nil {
		p.ArtistID = a.Category.ArtistID
		p.Artist = a.Category.ArtistName
	}
	return p
}

func (a apiCategory) toCategory() Category {
	c := Category{ID: a.ID, Name: a.CategoryName, ArtistID: a.ArtistID}
	if a.CategoryDescription != nil {
		c.Description = *a.CategoryDescription
	}
	return c
}

func page[T any](items []T, from, size int) []T {
	if from >= len(items) {
		return []T{}
	}
	end := from + size
	if end > len(items) {
		end = len(items)
	}
	return items[from:end]
}
