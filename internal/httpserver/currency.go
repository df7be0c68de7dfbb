package httpserver

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artisan_market/internal/transport"
	"github.com/Skotchmaster/artisan_market/pkg/currency"
	"github.com/Skotchmaster/artisan_market/pkg/logging"
)

type CurrencyHTTP struct{}

func (h *CurrencyHTTP) Convert(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "currency.convert")

	usd, err := strconv.ParseFloat(c.QueryParam("usd"), 64)
	if err != nil || math.IsNaN(usd) || math.IsInf(usd, 0) {
		return badRequest(l, "convert_error", "usd must be a number", err)
	}

	inr := currency.ConvertUSDToINR(usd)
	return c.JSON(http.StatusOK, transport.ConvertResponse{
		USD:       usd,
		INR:       inr,
		Formatted: currency.FormatPrice(inr, currency.INR),
	})
}

func (h *CurrencyHTTP) PriceRanges(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "currency.price_ranges")

	switch c.QueryParam("kind") {
	case "", "products":
		return c.JSON(http.StatusOK, currency.ProductPriceRanges)
	case "courses":
		return c.JSON(http.StatusOK, currency.CoursePriceRanges)
	default:
		return badRequest(l, "price_ranges_error", "kind must be products or courses", nil)
	}
}
