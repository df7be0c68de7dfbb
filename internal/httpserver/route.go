package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artisan_market/pkg/logging"
	"github.com/Skotchmaster/artisan_market/pkg/middleware/session"
)

type Deps struct {
	CartHandler     *CartHTTP
	CheckoutHandler *CheckoutHTTP
	CatalogHandler  *CatalogHTTP
	CurrencyHandler *CurrencyHTTP
	Session         *session.Middleware
	// CSRF guards the API group when set.
	CSRF echo.MiddlewareFunc
	// Ready reports whether the backing stores are reachable.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := d.Ready(c.Request().Context()); err != nil {
			logging.FromContext(c.Request().Context()).Warn("not_ready", "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	mw := []echo.MiddlewareFunc{d.Session.Attach}
	if d.CSRF != nil {
		mw = append([]echo.MiddlewareFunc{d.CSRF}, mw...)
	}
	api := e.Group("/api/v1", mw...)

	cart := api.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.PATCH("/items/:id", d.CartHandler.UpdateQuantity)
	cart.DELETE("/items/:id", d.CartHandler.RemoveItem)

	co := api.Group("/checkout")
	co.GET("", d.CheckoutHandler.GetCheckout)
	co.PUT("/shipping", d.CheckoutHandler.SetShipping)
	co.PUT("/payment-method", d.CheckoutHandler.SetPaymentMethod)
	co.POST("/submit", d.CheckoutHandler.Submit)

	api.GET("/products", d.CatalogHandler.GetProducts)
	api.GET("/products/:id", d.CatalogHandler.GetProduct)
	api.GET("/categories", d.CatalogHandler.GetCategories)

	artist := api.Group("", d.Session.RequireUser)
	artist.POST("/products", d.CatalogHandler.CreateProduct)
	artist.POST("/categories", d.CatalogHandler.CreateCategory)

	api.GET("/currency/convert", d.CurrencyHandler.Convert)
	api.GET("/currency/price-ranges", d.CurrencyHandler.PriceRanges)
}
