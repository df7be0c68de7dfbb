package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/artisan_market/internal/catalog"
)

type CatalogService struct {
	Catalog catalog.Catalog
}

func (h *CatalogService) ListProducts(ctx context.Context, f catalog.Filter) ([]catalog.Product, error) {
	if f.ArtistID < 0 || f.CategoryID < 0 || f.ProfessionID < 0 {
		return nil, fmt.Errorf("filter ids must not be negative: %w", ErrValidation)
	}
	return h.Catalog.ListProducts(ctx, f)
}

func (h *CatalogService) GetProduct(ctx context.Context, id int) (catalog.Product, error) {
	if id <= 0 {
		return catalog.Product{}, fmt.Errorf("id must be positive: %w", ErrValidation)
	}
	p, err := h.Catalog.GetProduct(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return catalog.Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return p, err
}

func (h *CatalogService) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return h.Catalog.ListCategories(ctx)
}

func (h *CatalogService) CreateCategory(ctx context.Context, in catalog.CreateCategoryInput) (catalog.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return catalog.Category{}, fmt.Errorf("category name required: %w", ErrValidation)
	}
	return h.Catalog.CreateCategory(ctx, in)
}

func (h *CatalogService) CreateProduct(ctx context.Context, in catalog.CreateProductInput) (catalog.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		return catalog.Product{}, fmt.Errorf("product name required: %w", ErrValidation)
	case in.CategoryID <= 0:
		return catalog.Product{}, fmt.Errorf("category id must be positive: %w", ErrValidation)
	case in.Price <= 0:
		return catalog.Product{}, fmt.Errorf("price must be positive: %w", ErrValidation)
	}
	return h.Catalog.CreateProduct(ctx, in)
}
