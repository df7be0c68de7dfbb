package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/artisan_market/internal/cart"
	"github.com/Skotchmaster/artisan_market/internal/catalog"
	"github.com/Skotchmaster/artisan_market/internal/checkout"
	"github.com/Skotchmaster/artisan_market/internal/models"
	"github.com/Skotchmaster/artisan_market/internal/repo"
	"github.com/Skotchmaster/artisan_market/pkg/db"
)

type memCatalog struct {
	products map[int]catalog.Product
	created  []catalog.CreateProductInput
}

func newMemCatalog() *memCatalog {
	return &memCatalog{products: map[int]catalog.Product{
		1: {ID: 1, CategoryID: 3, Name: "Blue Pottery Vase", Price: 1000, Image: "https://cdn/vase.jpg", Artist: "Meera"},
		2: {ID: 2, CategoryID: 4, Name: "Pashmina Shawl", Price: 4500},
	}}
}

func (m *memCatalog) ListProducts(_ context.Context, f catalog.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for id := 1; id <= len(m.products); id++ {
		p := m.products[id]
		if f.CategoryID == 0 || p.CategoryID == f.CategoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memCatalog) GetProduct(_ context.Context, id int) (catalog.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return catalog.Product{}, catalog.ErrNotFound
}

func (m *memCatalog) ListCategories(context.Context) ([]catalog.Category, error) {
	return []catalog.Category{{ID: 3, Name: "Pottery"}}, nil
}

func (m *memCatalog) CreateCategory(_ context.Context, in catalog.CreateCategoryInput) (catalog.Category, error) {
	return catalog.Category{ID: 9, Name: in.Name}, nil
}

func (m *memCatalog) CreateProduct(_ context.Context, in catalog.CreateProductInput) (catalog.Product, error) {
	m.created = append(m.created, in)
	return catalog.Product{ID: 10, Name: in.Name, Price: in.Price, CategoryID: in.CategoryID}, nil
}

type published struct {
	topic, key string
	event      any
}

type memPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *memPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{topic, key, event})
	return nil
}

func (p *memPublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}

type failingRepo struct{}

func (failingRepo) GetCart(context.Context, string) (*models.CartSnapshot, error) {
	return nil, errors.New("db down")
}

func (failingRepo) SaveCart(context.Context, *models.CartSnapshot) error {
	return errors.New("db down")
}

type heldGateway struct {
	started chan struct{}
	release chan struct{}
}

func newHeldGateway() *heldGateway {
	return &heldGateway{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *heldGateway) Charge(context.Context, checkout.Payment) (checkout.Receipt, error) {
	g.started <- struct{}{}
	<-g.release
	return checkout.Receipt{Reference: "held", ApprovedAt: placedAt}, nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	repo     *repo.GormRepo
	pub      *memPublisher
	catalog  *memCatalog
	sessions *Sessions
	carts    *CartService
	checkout *CheckoutService
}

var placedAt = time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb, err := db.Open(context.Background(), db.DriverSQLite, filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	r := &repo.GormRepo{DB: gdb}
	require.NoError(t, r.Migrate(context.Background()))

	f := &fixture{repo: r, pub: &memPublisher{}, catalog: newMemCatalog()}
	f.sessions = f.newSessions()
	f.carts = &CartService{Sessions: f.sessions, Catalog: f.catalog}
	f.checkout = &CheckoutService{Sessions: f.sessions}
	return f
}

func (f *fixture) newSessions() *Sessions {
	return NewSessions(SessionsConfig{
		Repo:       f.repo,
		Events:     f.pub,
		CartTopic:  "cart_events",
		OrderTopic: "order_events",
		Gateway:    checkout.SimulatedGateway{Delay: time.Millisecond},
		Now:        func() time.Time { return placedAt },
	})
}

var shipping = checkout.ShippingInfo{FullName: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"}

func TestCartServiceAddProduct(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	st, err := f.carts.AddProduct(ctx, "guest:a", 1)
	require.NoError(t, err)
	st, err = f.carts.AddProduct(ctx, "guest:a", 1)
	require.NoError(t, err)
	require.Len(t, st.Items, 1)
	assert.Equal(t, cart.Line{ID: 1, Name: "Blue Pottery Vase", Price: 1000, Image: "https://cdn/vase.jpg", Artist: "Meera", Quantity: 2}, st.Items[0])
	assert.Equal(t, int64(2000), st.Total)

	st, err = f.carts.AddProduct(ctx, "guest:a", 2)
	require.NoError(t, err)
	assert.Equal(t, "Verified Artisan", st.Items[1].Artist)
	assert.Equal(t, int64(6500), st.Total)

	_, err = f.carts.AddProduct(ctx, "guest:a", 99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.carts.AddProduct(ctx, "guest:a", 0)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, int64(6500), f.carts.Get(ctx, "guest:a").Total)
	assert.True(t, f.carts.Get(ctx, "guest:b").IsEmpty())
}

func TestCartServiceMutations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.carts.AddProduct(ctx, "k", 1)
	require.NoError(t, err)
	_, err = f.carts.AddProduct(ctx, "k", 2)
	require.NoError(t, err)

	st, err := f.carts.UpdateQuantity(ctx, "k", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(9500), st.Total)

	st, err = f.carts.UpdateQuantity(ctx, "k", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), st.Total)
	_, ok := st.Line(1)
	assert.False(t, ok)

	st, err = f.carts.UpdateQuantity(ctx, "k", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), st.Total, "removed line must not come back")

	st, err = f.carts.Remove(ctx, "k", 2)
	require.NoError(t, err)
	assert.True(t, st.IsEmpty())
	st, err = f.carts.Remove(ctx, "k", 2)
	require.NoError(t, err)
	assert.True(t, st.IsEmpty())

	_, err = f.carts.AddProduct(ctx, "k", 2)
	require.NoError(t, err)
	st, err = f.carts.Clear(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, cart.State{Items: []cart.Line{}, Total: 0}, st)
}

func TestSessionsPersistAndRestore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.carts.AddProduct(ctx, "user:42", 1)
	require.NoError(t, err)
	_, err = f.carts.UpdateQuantity(ctx, "user:42", 1, 3)
	require.NoError(t, err)

	snap, err := f.repo.GetCart(ctx, "user:42")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), snap.Total)

	restarted := &CartService{Sessions: f.newSessions(), Catalog: f.catalog}
	st := restarted.Get(ctx, "user:42")
	assert.Equal(t, int64(3000), st.Total)
	assert.Equal(t, 3, st.Quantity())
}

func TestSessionsSurviveRepoFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewSessions(SessionsConfig{Repo: failingRepo{}, Gateway: checkout.SimulatedGateway{}})
	svc := &CartService{Sessions: s, Catalog: newMemCatalog()}

	st, err := svc.AddProduct(ctx, "k", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), st.Total)
}

func TestCartEventsPublished(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.carts.AddProduct(ctx, "guest:e", 1)
	require.NoError(t, err)
	_, err = f.carts.Remove(ctx, "guest:e", 1)
	require.NoError(t, err)

	events := f.pub.all()
	require.Len(t, events, 2)
	assert.Equal(t, "cart_events", events[0].topic)
	assert.Equal(t, "guest:e", events[0].key)

	first := events[0].event.(CartEvent)
	assert.Equal(t, cart.TypeAddItem, first.Type)
	assert.Equal(t, int64(1000), first.Total)
	assert.Equal(t, 1, first.Quantity)
	assert.Equal(t, placedAt, first.OccurredAt)
	assert.Equal(t, cart.TypeRemoveItem, events[1].event.(CartEvent).Type)
}

func TestCheckoutServiceScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	key := "guest:checkout"

	_, err := f.carts.AddProduct(ctx, key, 1)
	require.NoError(t, err)
	_, err = f.carts.UpdateQuantity(ctx, key, 1, 2)
	require.NoError(t, err)

	view := f.checkout.Open(ctx, key)
	assert.Equal(t, checkout.Editing, view.Status)
	assert.Equal(t, checkout.Summary{Subtotal: 2000, Tax: 360, GrandTotal: 2360, ItemCount: 1}, view.Summary)
	assert.Equal(t, checkout.Card, view.PaymentMethod)
	assert.False(t, view.CanSubmit)
	assert.Equal(t, []string{"fullName", "email", "phone"}, view.Missing)

	_, err = f.checkout.Submit(ctx, key)
	require.ErrorIs(t, err, ErrValidation)
	require.ErrorIs(t, err, checkout.ErrNotReady)

	_, err = f.checkout.SetPaymentMethod(ctx, key, "cash")
	assert.ErrorIs(t, err, ErrValidation)

	view, err = f.checkout.SetShipping(ctx, key, shipping)
	require.NoError(t, err)
	assert.True(t, view.CanSubmit)
	view, err = f.checkout.SetPaymentMethod(ctx, key, "upi")
	require.NoError(t, err)
	assert.Equal(t, checkout.UPI, view.PaymentMethod)

	res, err := f.checkout.Submit(ctx, key)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(2360), res.Summary.GrandTotal)
	assert.Equal(t, placedAt, res.PlacedAt)

	assert.True(t, f.carts.Get(ctx, key).IsEmpty())
	_, err = f.repo.GetCart(ctx, key)
	assert.Error(t, err, "cleared cart is removed from storage")

	_, err = f.checkout.Submit(ctx, key)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.checkout.SetShipping(ctx, key, shipping)
	assert.ErrorIs(t, err, ErrConflict)

	var order *OrderPlacedEvent
	for _, ev := range f.pub.all() {
		if e, ok := ev.event.(OrderPlacedEvent); ok {
			assert.Equal(t, "order_events", ev.topic)
			order = &e
		}
	}
	require.NotNil(t, order)
	assert.Equal(t, EventOrderPlaced, order.Type)
	assert.Equal(t, res.ConfirmationID, order.ConfirmationID)
	assert.Equal(t, checkout.UPI, order.PaymentMethod)

	fresh := f.checkout.Open(ctx, key)
	assert.Equal(t, checkout.Editing, fresh.Status)
	assert.Equal(t, checkout.ShippingInfo{}, fresh.Shipping)
	assert.Equal(t, checkout.Summary{}, fresh.Summary)
}

func TestCheckoutSubmitIsSingleFlight(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	key := "guest:race"

	_, err := f.carts.AddProduct(ctx, key, 2)
	require.NoError(t, err)
	_, err = f.checkout.SetShipping(ctx, key, shipping)
	require.NoError(t, err)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.checkout.Submit(ctx, key)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
}

func TestCatalogServiceValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := &CatalogService{Catalog: newMemCatalog()}

	_, err := svc.GetProduct(ctx, 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.GetProduct(ctx, 77)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.ListProducts(ctx, catalog.Filter{CategoryID: 3})
	require.NoError(t, err)
	require.Len(t, list, 1)
	_, err = svc.ListProducts(ctx, catalog.Filter{ArtistID: -1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateCategory(ctx, catalog.CreateCategoryInput{Name: "  "})
	assert.ErrorIs(t, err, ErrValidation)
	cat, err := svc.CreateCategory(ctx, catalog.CreateCategoryInput{Name: " Pottery "})
	require.NoError(t, err)
	assert.Equal(t, "Pottery", cat.Name)

	tests := []catalog.CreateProductInput{
		{Name: "", CategoryID: 1, Price: 10},
		{Name: "x", CategoryID: 0, Price: 10},
		{Name: "x", CategoryID: 1, Price: 0},
	}
	for _, in := range tests {
		_, err := svc.CreateProduct(ctx, in)
		assert.ErrorIs(t, err, ErrValidation, "%+v", in)
	}
	p, err := svc.CreateProduct(ctx, catalog.CreateProductInput{Name: "Bowl", CategoryID: 3, Price: 300})
	require.NoError(t, err)
	assert.Equal(t, 10, p.ID)
}

func TestCartRejectsChangesWhilePaymentInFlight(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	key := "guest:paying"

	gw := newHeldGateway()
	s := NewSessions(SessionsConfig{Repo: f.repo, Gateway: gw, Now: func() time.Time { return placedAt }})
	carts := &CartService{Sessions: s, Catalog: f.catalog}
	co := &CheckoutService{Sessions: s}

	_, err := carts.AddProduct(ctx, key, 1)
	require.NoError(t, err)
	_, err = co.SetShipping(ctx, key, shipping)
	require.NoError(t, err)

	var (
		wg     sync.WaitGroup
		res    *checkout.OrderResult
		subErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, subErr = co.Submit(ctx, key)
	}()
	<-gw.started

	_, err = carts.AddProduct(ctx, key, 2)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = carts.UpdateQuantity(ctx, key, 1, 4)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = carts.Remove(ctx, key, 1)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = carts.Clear(ctx, key)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, int64(1000), carts.Get(ctx, key).Total)

	assert.Zero(t, s.Evict(0), "a session with a payment in flight is kept")
	assert.Equal(t, 1, s.Len())

	close(gw.release)
	wg.Wait()
	require.NoError(t, subErr)
	assert.Equal(t, int64(1180), res.Summary.GrandTotal)
	assert.True(t, carts.Get(ctx, key).IsEmpty())

	st, err := carts.AddProduct(ctx, key, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), st.Total)
}

func TestSessionsEvictIdle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	clk := &testClock{now: placedAt}
	s := NewSessions(SessionsConfig{Repo: f.repo, Gateway: checkout.SimulatedGateway{}, Now: clk.Now})
	carts := &CartService{Sessions: s, Catalog: f.catalog}

	_, err := carts.AddProduct(ctx, "guest:old", 1)
	require.NoError(t, err)
	clk.advance(20 * time.Minute)
	carts.Get(ctx, "guest:new")
	clk.advance(15 * time.Minute)

	assert.Equal(t, 1, s.Evict(30*time.Minute))
	assert.Equal(t, 1, s.Len())

	st := carts.Get(ctx, "guest:old")
	assert.Equal(t, int64(1000), st.Total, "an evicted cart is restored from its snapshot")
	assert.Equal(t, 2, s.Len())
}

func TestSessionsSweep(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewSessions(SessionsConfig{Gateway: checkout.SimulatedGateway{}, Now: func() time.Time { return placedAt }})
	carts := &CartService{Sessions: s, Catalog: newMemCatalog()}
	for _, key := range []string{"guest:a", "guest:b", "guest:c"} {
		carts.Get(ctx, key)
	}
	require.Equal(t, 3, s.Len())

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Sweep(ctx, 5*time.Millisecond, 0)
	}()

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
