package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/artisan_market/internal/util"
)

// Client talks to the product API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(productServiceURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(productServiceURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) ListProducts(ctx context.Context, f Filter) ([]Product, error) {
	q := url.Values{}
	if f.ProfessionID > 0 {
		q.Set("professionId", strconv.Itoa(f.ProfessionID))
	}
	if f.ArtistID > 0 {
		q.Set("artistId", strconv.Itoa(f.ArtistID))
	}
	if f.CategoryID > 0 {
		q.Set("categoryId", strconv.Itoa(f.CategoryID))
	}
	path := "/api/product/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	var raw []apiProduct
	if err := c.do(req, &raw); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]Product, 0, len(raw))
	for _, a := range raw {
		if p := a.toProduct(); f.priceMatches(p.Price) {
			out = append(out, p)
		}
	}
	from, size := util.Paginate(f.Page, f.Size)
	return page(out, from, size), nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/product/"+strconv.Itoa(id), nil, "")
	if err != nil {
		return Product{}, err
	}
	var raw apiProduct
	if err := c.do(req, &raw); err != nil {
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return raw.toProduct(), nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/product/categories", nil, "")
	if err != nil {
		return nil, err
	}
	var raw []apiCategory
	if err := c.do(req, &raw); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]Category, 0, len(raw))
	for _, a := range raw {
		out = append(out, a.toCategory())
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, in CreateCategoryInput) (Category, error) {
	body, err := json.Marshal(map[string]string{
		"categoryName":        in.Name,
		"categoryDescription": in.Description,
	})
	if err != nil {
		return Category{}, fmt.Errorf("encode category: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/product/new-category", bytes.NewReader(body), "application/json")
	if err != nil {
		return Category{}, err
	}
	var raw apiCategory
	if err := c.do(req, &raw); err != nil {
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	return raw.toCategory(), nil
}

// CreateProduct posts the same multipart form the storefront sends, without
// images.
func (c *Client) CreateProduct(ctx context.Context, in CreateProductInput) (Product, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"categoryId", strconv.Itoa(in.CategoryID)},
		{"productName", in.Name},
		{"productPrice", strconv.FormatInt(in.Price, 10)},
	}
	if in.Description != "" {
		fields = append(fields, [2]string{"productDescription", in.Description})
	}
	if in.MaterialType != "" {
		fields = append(fields, [2]string{"materialType", in.MaterialType})
	}
	if len(in.Colors) > 0 {
		fields = append(fields, [2]string{"availableColors", strings.Join(in.Colors, ",")})
	}
	if len(in.Sizes) > 0 {
		fields = append(fields, [2]string{"sizes", strings.Join(in.Sizes, ",")})
	}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return Product{}, fmt.Errorf("encode product: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return Product{}, fmt.Errorf("encode product: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/product/new-product", &buf, w.FormDataContentType())
	if err != nil {
		return Product{}, err
	}
	var raw apiProduct
	if err := c.do(req, &raw); err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return raw.toProduct(), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := accessToken(ctx); tok != "" {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: tok})
	}
	return req, nil
}

func (c *Client) do(req *http.Request, data any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && env.Message != "" {
			return fmt.Errorf("product api status %d: %s", resp.StatusCode, env.Message)
		}
		return fmt.Errorf("product api status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if !env.Success {
		return fmt.Errorf("product api: %s", env.Message)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrNotFound
	}
	if err := json.Unmarshal(env.Data, data); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

var _ Catalog = (*Client)(nil)
