package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artisan_market/internal/catalog"
	"github.com/Skotchmaster/artisan_market/internal/service"
	"github.com/Skotchmaster/artisan_market/internal/transport"
	"github.com/Skotchmaster/artisan_market/internal/util"
	"github.com/Skotchmaster/artisan_market/pkg/currency"
	"github.com/Skotchmaster/artisan_market/pkg/logging"
	"github.com/Skotchmaster/artisan_market/pkg/middleware/session"
)

type CatalogHTTP struct {
	Svc      *service.CatalogService
	Currency currency.Currency
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	f := catalog.Filter{
		ArtistID:     util.ParseIntDefault(c.QueryParam("artist_id"), 0),
		CategoryID:   util.ParseIntDefault(c.QueryParam("category_id"), 0),
		ProfessionID: util.ParseIntDefault(c.QueryParam("profession_id"), 0),
		Page:         page,
		Size:         size,
	}
	if v := c.QueryParam("price_range"); v != "" {
		r, ok := currency.RangeByValue(currency.ProductPriceRanges, v)
		if !ok {
			return badRequest(l, "get_products_error", "unknown price_range", nil)
		}
		f.MinPrice, f.MaxPrice = r.Min, r.Max
	}

	items, err := h.Svc.ListProducts(ctx, f)
	if err != nil {
		return fail(l, "get_products_error", err)
	}

	_, limit := util.Paginate(page, size)
	out := make([]transport.ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, transport.NewProductResponse(p, h.Currency))
	}
	return c.JSON(http.StatusOK, transport.ProductsResponse{
		Data: out,
		Meta: transport.PageMeta{Page: max(page, 1), Size: limit},
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "get_product_error", "id is not an integer", err)
	}
	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewProductResponse(p, h.Currency))
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_categories")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "get_categories_error", err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_category")

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_category_error", "invalid body", err)
	}

	ctx = catalog.WithAccessToken(ctx, session.AccessToken(c))
	cat, err := h.Svc.CreateCategory(ctx, catalog.CreateCategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return fail(l, "create_category_error", err)
	}

	l.Info("create_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_product_error", "invalid body", err)
	}

	ctx = catalog.WithAccessToken(ctx, session.AccessToken(c))
	p, err := h.Svc.CreateProduct(ctx, req.Input())
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, transport.NewProductResponse(p, h.Currency))
}
