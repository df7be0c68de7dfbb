package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/artisan_market/internal/util"
)

const maxCategories = 1000

// IndexReader serves products from an Elasticsearch index holding product
// API documents. Results are filtered and ordered by id, never ranked.
type IndexReader struct {
	ES    *elasticsearch.Client
	Index string
}

func NewIndexReader(es *elasticsearch.Client, index string) *IndexReader {
	return &IndexReader{ES: es, Index: index}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source apiProduct `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (r *IndexReader) ListProducts(ctx context.Context, f Filter) ([]Product, error) {
	from, size := util.Paginate(f.Page, f.Size)

	filters := []map[string]any{}
	if f.CategoryID > 0 {
		filters = append(filters, term("categoryId", f.CategoryID))
	}
	if f.ArtistID > 0 {
		filters = append(filters, term("category.artistId", f.ArtistID))
	}
	if f.ProfessionID > 0 {
		filters = append(filters, term("professionId", f.ProfessionID))
	}
	if f.MinPrice > 0 || f.MaxPrice > 0 {
		bounds := map[string]any{"gte": f.MinPrice}
		if f.MaxPrice > 0 {
			bounds["lt"] = f.MaxPrice
		}
		filters = append(filters, map[string]any{"range": map[string]any{"basePrice": bounds}})
	}

	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"filter": filters},
		},
		"sort": []map[string]any{{"id": "asc"}},
		"from": from,
		"size": size,
	}

	res, err := r.search(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]Product, 0, len(res.Hits.Hits))
	for _, h := range res.Hits.Hits {
		out = append(out, h.Source.toProduct())
	}
	return out, nil
}

func (r *IndexReader) GetProduct(ctx context.Context, id int) (Product, error) {
	res, err := r.ES.Get(r.Index, strconv.Itoa(id), r.ES.Get.WithContext(ctx))
	if err != nil {
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return Product{}, fmt.Errorf("get product %d: %w", id, ErrNotFound)
	}
	if res.IsError() {
		return Product{}, fmt.Errorf("get product %d: %s", id, res.Status())
	}

	var doc struct {
		Found  bool       `json:"found"`
		Source apiProduct `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return Product{}, fmt.Errorf("decode product %d: %w", id, err)
	}
	if !doc.Found {
		return Product{}, fmt.Errorf("get product %d: %w", id, ErrNotFound)
	}
	return doc.Source.toProduct(), nil
}

// ListCategories collapses indexed products on their category.
func (r *IndexReader) ListCategories(ctx context.Context) ([]Category, error) {
	body := map[string]any{
		"query":    map[string]any{"match_all": map[string]any{}},
		"collapse": map[string]any{"field": "categoryId"},
		"sort":     []map[string]any{{"categoryId": "asc"}},
		"_source":  []string{"categoryId", "category"},
		"size":     maxCategories,
	}
	res, err := r.search(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]Category, 0, len(res.Hits.Hits))
	for _, h := range res.Hits.Hits {
		if h.Source.Category == nil {
			continue
		}
		out = append(out, h.Source.Category.toCategory())
	}
	return out, nil
}

func (r *IndexReader) CreateCategory(context.Context, CreateCategoryInput) (Category, error) {
	return Category{}, ErrReadOnly
}

func (r *IndexReader) CreateProduct(context.Context, CreateProductInput) (Product, error) {
	return Product{}, ErrReadOnly
}

func (r *IndexReader) search(ctx context.Context, body map[string]any) (searchResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return searchResponse{}, fmt.Errorf("encode query: %w", err)
	}

	res, err := r.ES.Search(
		r.ES.Search.WithContext(ctx),
		r.ES.Search.WithIndex(r.Index),
		r.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return searchResponse{}, err
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return searchResponse{}, fmt.Errorf("search %s: %s", res.Status(), msg)
	}

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return searchResponse{}, fmt.Errorf("decode hits: %w", err)
	}
	return out, nil
}

func term(field string, v int) map[string]any {
	return map[string]any{"term": map[string]any{field: v}}
}

var _ Catalog = (*IndexReader)(nil)
