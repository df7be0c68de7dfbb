package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/artisan_market/internal/cart"
	"github.com/Skotchmaster/artisan_market/internal/checkout"
	"github.com/Skotchmaster/artisan_market/internal/models"
)

const persistTimeout = 2 * time.Second

// CartRepo is satisfied by repo.GormRepo.
type CartRepo interface {
	GetCart(ctx context.Context, sessionID string) (*models.CartSnapshot, error)
	SaveCart(ctx context.Context, snap *models.CartSnapshot) error
}

type SessionsConfig struct {
	Repo       CartRepo
	Events     Publisher
	CartTopic  string
	OrderTopic string
	Gateway    checkout.Gateway
	Logger     *slog.Logger
	Now        func() time.Time
}

type session struct {
	key   string
	store *cart.Store

	lastSeen time.Time // guarded by Sessions.mu

	mu   sync.Mutex
	flow *checkout.Flow
}

func (sess *session) charging() bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.flow != nil && sess.flow.Status() == checkout.Processing
}

// Sessions owns one cart store per session key. A store is restored from the
// repository on first use; afterwards every dispatched state is saved and
// published. Idle sessions are dropped by Evict and restored on their next
// request.
type Sessions struct {
	cfg SessionsConfig

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessions(cfg SessionsConfig) *Sessions {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Gateway == nil {
		cfg.Gateway = checkout.SimulatedGateway{Delay: checkout.DefaultDelay}
	}
	return &Sessions{cfg: cfg, sessions: make(map[string]*session)}
}

// Store returns the cart store for key, creating it on first use.
func (s *Sessions) Store(ctx context.Context, key string) *cart.Store {
	return s.get(ctx, key).store
}

func (s *Sessions) get(ctx context.Context, key string) *session {
	s.mu.Lock()
	if sess, ok := s.sessions[key]; ok {
		sess.lastSeen = s.cfg.Now()
		s.mu.Unlock()
		return sess
	}
	s.mu.Unlock()

	initial := s.restore(ctx, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[key]; ok {
		sess.lastSeen = s.cfg.Now()
		return sess
	}
	sess := &session{key: key, store: cart.NewStore(initial), lastSeen: s.cfg.Now()}
	sess.store.Subscribe(s.persist(key))
	if s.cfg.Events != nil {
		sess.store.Subscribe(s.publishCart(key))
	}
	s.sessions[key] = sess
	return sess
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Evict drops sessions unused for idle and reports how many went. Sessions
// with a payment in flight stay.
func (s *Sessions) Evict(idle time.Duration) int {
	cutoff := s.cfg.Now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, sess := range s.sessions {
		if sess.lastSeen.After(cutoff) || sess.charging() {
			continue
		}
		delete(s.sessions, key)
		n++
	}
	return n
}

// Sweep runs Evict every interval until ctx is done.
func (s *Sessions) Sweep(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Evict(idle); n > 0 {
				s.cfg.Logger.Info("sessions_evicted", "count", n, "active", s.Len())
			}
		}
	}
}

func (s *Sessions) restore(ctx context.Context, key string) cart.State {
	if s.cfg.Repo == nil {
		return cart.Empty()
	}
	snap, err := s.cfg.Repo.GetCart(ctx, key)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return cart.Empty()
	case err != nil:
		s.cfg.Logger.Error("restore_cart_error", "session", key, "error", err)
		return cart.Empty()
	}
	return snap.State()
}

// Listeners run under the store lock, so saves reach the repository in
// dispatch order.
func (s *Sessions) persist(key string) cart.Listener {
	return func(a cart.Action, st cart.State) {
		if s.cfg.Repo == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.cfg.Repo.SaveCart(ctx, models.NewCartSnapshot(key, st)); err != nil {
			s.cfg.Logger.Error("save_cart_error", "session", key, "action", a.Type(), "error", err)
		}
	}
}

func (s *Sessions) publishCart(key string) cart.Listener {
	return func(a cart.Action, st cart.State) {
		ev := newCartEvent(key, a, st, s.cfg.Now().UTC())
		if err := s.cfg.Events.PublishEvent(context.Background(), s.cfg.CartTopic, key, ev); err != nil {
			s.cfg.Logger.Error("publish_cart_event_error", "session", key, "action", a.Type(), "error", err)
		}
	}
}

// flow returns the session's checkout flow. With fresh set, a missing or
// completed flow is replaced by a new one.
func (s *Sessions) flow(ctx context.Context, key string, fresh bool) *checkout.Flow {
	sess := s.get(ctx, key)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.flow == nil || (fresh && sess.flow.Status() == checkout.Complete) {
		sess.flow = checkout.New(sess.store, s.cfg.Gateway,
			checkout.WithClock(s.cfg.Now),
			checkout.OnComplete(s.publishOrder(key)),
		)
	}
	return sess.flow
}

func (s *Sessions) publishOrder(key string) func(checkout.OrderResult) {
	return func(r checkout.OrderResult) {
		s.cfg.Logger.Info("order_placed", "session", key,
			"confirmation_id", r.ConfirmationID, "grand_total", r.Summary.GrandTotal)
		if s.cfg.Events == nil {
			return
		}
		if err := s.cfg.Events.PublishEvent(context.Background(), s.cfg.OrderTopic, key, newOrderPlacedEvent(key, r)); err != nil {
			s.cfg.Logger.Error("publish_order_event_error", "session", key, "error", err)
		}
	}
}
