// Package app wires the capsule server from its configuration.
package app

import (
	"context"
	"fmt"

	"github.com/zillusion/capsule/auth/jwt"
	"github.com/zillusion/capsule/bootstrap"
	"github.com/zillusion/capsule/component"
	"github.com/zillusion/capsule/database"
	"github.com/zillusion/capsule/internal/analysis"
	"github.com/zillusion/capsule/internal/api"
	"github.com/zillusion/capsule/internal/demo"
	"github.com/zillusion/capsule/internal/listing"
	"github.com/zillusion/capsule/internal/record"
	"github.com/zillusion/capsule/internal/transcribe"
	"github.com/zillusion/capsule/llm"
	"github.com/zillusion/capsule/observability"
	"github.com/zillusion/capsule/redis"
	"github.com/zillusion/capsule/resilience"
	"github.com/zillusion/capsule/server"
	"github.com/zillusion/capsule/server/middleware"
	"github.com/zillusion/capsule/storage"
	"github.com/zillusion/capsule/transcription/deepgram"

	// Providers register themselves by name.
	_ "github.com/zillusion/capsule/llm/openai"
	_ "github.com/zillusion/capsule/storage/s3"
)

// publicPaths are served without a token.
var publicPaths = map[string]bool{
	"/health":  true,
	"/info":    true,
	"/metrics": true,
}

// Server is the capsule HTTP service.
type Server struct {
	*bootstrap.App[*Config]

	database *database.Component
	cache    *redis.Component
	objects  *storage.Component
	http     *server.Server
}

// New registers the infrastructure components. Services and the HTTP server
// are built in the configure phase, once the infrastructure has started.
func New(cfg *Config, opts ...bootstrap.Option) (*Server, error) {
	a, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}
	s := &Server{
		App:      a,
		database: database.NewComponent(cfg.Database, a.Logger).WithAutoMigrate(&record.Record{}),
		cache:    redis.NewComponent(cfg.Redis, a.Logger),
		objects:  storage.NewComponent(cfg.Storage, a.Logger),
	}
	telemetry := observability.New(cfg.Observability, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}, a.Logger)

	for _, c := range []component.Component{telemetry, s.database, s.cache, s.objects} {
		if err := a.RegisterComponent(c); err != nil {
			return nil, err
		}
	}
	a.OnConfigure(func(_ context.Context, a *bootstrap.App[*Config]) error {
		return s.configure()
	})
	return s, nil
}

// Addr is the bound HTTP address once started.
func (s *Server) Addr() string {
	if s.http == nil {
		return ""
	}
	return s.http.Addr()
}

func (s *Server) configure() error {
	cfg, log := s.Cfg, s.Logger

	metrics, err := observability.NewGlobalMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	repo := record.NewRepository(s.database.DB())
	policy := demo.New(cfg.Listing.DemoID)
	lists := listing.NewService(repo, policy,
		listing.WithCache(s.cache.Client(), cfg.Listing.CacheTTL),
		listing.WithMetrics(metrics),
		listing.WithLogger(log),
	)

	engine, err := deepgram.New(cfg.Transcription)
	if err != nil {
		return err
	}
	s.Summary.TrackClient("deepgram", cfg.Transcription.BaseURL)

	opts := []transcribe.Option{
		transcribe.WithInvalidator(lists),
		transcribe.WithMetrics(metrics),
		transcribe.WithLogger(log),
	}
	if cfg.AnalysisEnabled() {
		adapter, err := llm.New(cfg.LLM)
		if err != nil {
			return err
		}
		var aopts []analysis.Option
		if cfg.LLM.Retries > 0 {
			aopts = append(aopts, analysis.WithRetry(resilience.RetryConfig{
				MaxAttempts: cfg.LLM.Retries + 1,
				Jitter:      0.2,
			}))
		}
		opts = append(opts, transcribe.WithAnalyzer(analysis.New(adapter, cfg.LLM.Prompt, cfg.LLM.Model, aopts...)))
		s.Summary.TrackClient("llm", cfg.LLM.BaseURL)
	} else {
		log.Warn("llm.api_key not set, transcripts will not be analyzed")
	}

	svc := transcribe.NewService(s.transcribeConfig(), s.objects.Store(), engine, repo, opts...)
	if err := s.RegisterComponent(svc); err != nil {
		return err
	}

	verifier, err := jwt.NewVerifier(cfg.Auth)
	if err != nil {
		return err
	}

	s.http = server.New(cfg.Server, log)
	s.http.ApplyMiddleware()
	s.http.RegisterSystemEndpoints(cfg.Name, s.Components.HealthAll)
	protected := s.http.Engine().Group("/", middleware.Auth(verifier))
	api.NewHandler(repo, policy, svc, lists, log).Register(protected)

	for _, r := range s.http.Engine().Routes() {
		s.Summary.TrackRoute(r.Method, r.Path, r.Handler, publicPaths[r.Path])
	}

	// Registered last so it stops first and drains requests before the
	// transcribe service waits for analyses.
	return s.RegisterComponent(server.NewComponent(s.http))
}

// transcribeConfig fills unset expiries from the storage section.
func (s *Server) transcribeConfig() transcribe.Config {
	tc := s.Cfg.Transcribe
	if tc.URLExpiry == 0 {
		tc.URLExpiry = s.Cfg.Storage.URLExpiry
	}
	if tc.UploadURLExpiry == 0 {
		tc.UploadURLExpiry = s.Cfg.Storage.UploadURLExpiry
	}
	return tc
}
