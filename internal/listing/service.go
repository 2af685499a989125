package listing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zillusion/capsule/internal/demo"
	"github.com/zillusion/capsule/internal/record"
	"github.com/zillusion/capsule/logger"
	"github.com/zillusion/capsule/observability"
	"github.com/zillusion/capsule/redis"
)

const (
	cachePrefix     = "capsule:list"
	DefaultCacheTTL = 30 * time.Second
)

// Store is the record access the list needs.
type Store interface {
	demo.Store
	CountByUser(ctx context.Context, userID string) (int64, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]record.Record, error)
}

// Service serves list pages, optionally cached in redis.
type Service struct {
	store   Store
	policy  demo.Policy
	client  *redis.Client
	pages   *redis.TypedStore[Page]
	ttl     time.Duration
	metrics *observability.Metrics
	log     *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache caches pages in client for ttl. A nil client disables caching.
func WithCache(client *redis.Client, ttl time.Duration) Option {
	return func(s *Service) {
		if client == nil {
			return
		}
		if ttl <= 0 {
			ttl = DefaultCacheTTL
		}
		s.client = client
		s.pages = redis.NewTypedStore[Page](client, cachePrefix)
		s.ttl = ttl
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l.WithComponent("listing") }
}

func NewService(store Store, policy demo.Policy, opts ...Option) *Service {
	s := &Service{store: store, policy: policy, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Page returns page of userID's list. page and limit are normalized first.
func (s *Service) Page(ctx context.Context, userID string, page, limit int) (p *Page, err error) {
	page, limit = Normalize(page, limit)
	ctx, span := observability.StartSpan(ctx, observability.SpanListPage,
		attribute.Int(observability.AttrPage, page))
	defer func() { observability.EndSpan(span, err) }()

	key := s.cacheKey(ctx, userID, page, limit)
	if cached := s.loadCached(ctx, key); cached != nil {
		span.SetAttributes(attribute.Bool(observability.AttrCacheHit, true))
		s.metrics.RecordListPage(ctx, true)
		return cached, nil
	}

	p, err = s.build(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordListPage(ctx, false)
	s.saveCached(ctx, key, p)
	return p, nil
}

func (s *Service) build(ctx context.Context, userID string, page, limit int) (*Page, error) {
	count, err := s.store.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	w := plan(page, limit)
	items := make([]Item, 0, limit)
	if w.demo {
		pinned, err := s.policy.Pinned(ctx, s.store)
		if err != nil {
			return nil, err
		}
		if pinned != nil {
			items = append(items, ItemFrom(pinned, true))
		}
	}
	if w.limit > 0 {
		recs, err := s.store.ListByUser(ctx, userID, w.offset, w.limit)
		if err != nil {
			return nil, err
		}
		for i := range recs {
			items = append(items, ItemFrom(&recs[i], false))
		}
	}

	return &Page{Data: items, Pagination: paginate(page, limit, count)}, nil
}

// Invalidate drops every cached page of userID by bumping its generation.
func (s *Service) Invalidate(ctx context.Context, userID string) {
	if s.client == nil {
		return
	}
	if _, err := s.client.Incr(ctx, s.generationKey(userID)); err != nil {
		s.log.Warn("list cache invalidation failed", logger.ErrorFields("invalidate", err))
	}
}

func (s *Service) generationKey(userID string) string {
	return cachePrefix + ":gen:" + userID
}

// cacheKey embeds the user's generation so Invalidate needs one write. It
// returns "" when caching is off or the generation cannot be read.
func (s *Service) cacheKey(ctx context.Context, userID string, page, limit int) string {
	if s.client == nil {
		return ""
	}
	gen, err := s.client.Get(ctx, s.generationKey(userID))
	if err != nil {
		if !redis.IsNil(err) {
			s.log.Warn("list cache unavailable", logger.ErrorFields("generation", err))
			return ""
		}
		gen = "0"
	}
	return fmt.Sprintf("%s:%s:%d:%d", userID, gen, page, limit)
}

func (s *Service) loadCached(ctx context.Context, key string) *Page {
	if key == "" {
		return nil
	}
	p, err := s.pages.Load(ctx, key)
	if err != nil {
		s.log.Warn("list cache read failed", logger.ErrorFields("load", err))
		return nil
	}
	return p
}

func (s *Service) saveCached(ctx context.Context, key string, p *Page) {
	if key == "" {
		return
	}
	if err := s.pages.Save(ctx, key, p, s.ttl); err != nil {
		s.log.Warn("list cache write failed", logger.ErrorFields("save", err))
	}
}
