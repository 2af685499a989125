package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"

	apperrors "github.com/zillusion/capsule/errors"
	"github.com/zillusion/capsule/internal/record"
	"github.com/zillusion/capsule/logger"
	"github.com/zillusion/capsule/media"
	"github.com/zillusion/capsule/observability"
	"github.com/zillusion/capsule/storage"
	"github.com/zillusion/capsule/transcription"
)

const (
	DefaultAnalysisTimeout = 2 * time.Minute
	// defaultExtension is stored when a key carries no extension.
	defaultExtension = "m4a"
)

// Store persists records.
type Store interface {
	Insert(ctx context.Context, rec *record.Record) error
	UpdateAnalysis(ctx context.Context, id string, analysis datatypes.JSON) error
}

// Analyzer produces the analysis JSON for an engine result.
type Analyzer interface {
	Analyze(ctx context.Context, raw json.RawMessage) (datatypes.JSON, error)
}

// NoAudioError is returned when an upload carries no audio file.
func NoAudioError() *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeInvalidInput, "No audio file uploaded", http.StatusBadRequest)
}

// Invalidator drops cached list pages of a user.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// Config holds the service's timing settings.
type Config struct {
	URLExpiry       time.Duration `mapstructure:"url_expiry"`
	UploadURLExpiry time.Duration `mapstructure:"upload_url_expiry"`
	AnalysisTimeout time.Duration `mapstructure:"analysis_timeout"`
}

func (c *Config) ApplyDefaults() {
	if c.URLExpiry <= 0 {
		c.URLExpiry = storage.DefaultURLExpiry
	}
	if c.UploadURLExpiry <= 0 {
		c.UploadURLExpiry = storage.DefaultUploadURLExpiry
	}
	if c.AnalysisTimeout <= 0 {
		c.AnalysisTimeout = DefaultAnalysisTimeout
	}
}

// Service coordinates storage, the transcription engine, persistence and
// analysis.
type Service struct {
	cfg      Config
	objects  storage.ObjectStore
	engine   transcription.Provider
	store    Store
	analyzer Analyzer
	lists    Invalidator
	metrics  *observability.Metrics
	log      *logger.Logger

	now   func() time.Time
	newID func() string

	wg sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithAnalyzer enables background analysis after each transcription.
func WithAnalyzer(a Analyzer) Option { return func(s *Service) { s.analyzer = a } }

// WithInvalidator is told about every new or updated record.
func WithInvalidator(i Invalidator) Option { return func(s *Service) { s.lists = i } }

func WithMetrics(m *observability.Metrics) Option { return func(s *Service) { s.metrics = m } }

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l.WithComponent("transcribe") }
}

// WithClock replaces time.Now and uuid generation, for tests.
func WithClock(now func() time.Time, newID func() string) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(cfg Config, objects storage.ObjectStore, engine transcription.Provider, store Store, opts ...Option) *Service {
	cfg.ApplyDefaults()
	s := &Service{
		cfg:     cfg,
		objects: objects,
		engine:  engine,
		store:   store,
		log:     logger.Nop(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TranscribeKey transcribes an object the client already uploaded under key
// and stores the record for userID. The key must be one UploadURL issued to
// userID. Analysis continues after it returns.
func (s *Service) TranscribeKey(ctx context.Context, key, userID string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", apperrors.MissingField("key")
	}
	if !media.OwnedBy(key, userID) {
		s.log.WithContext(ctx).Warn("key outside the caller's uploads", logger.Fields("key", key, "user_id", userID))
		return "", apperrors.Forbidden("Recording does not belong to the caller")
	}
	ext := strings.TrimPrefix(path.Ext(key), ".")
	if ext == "" {
		ext = defaultExtension
	}
	return s.transcribeAs(ctx, s.newID(), key, ext, userID)
}

// TranscribeUpload stores body under audio/{uuid}.{subtype}, then
// transcribes it like TranscribeKey.
func (s *Service) TranscribeUpload(ctx context.Context, body []byte, contentType, userID string) (string, error) {
	if len(body) == 0 {
		return "", NoAudioError()
	}
	ext := record.ExtensionFromMIME(contentType)
	if ext == "" {
		return "", apperrors.InvalidInput("audio", "unsupported content type")
	}
	id := s.newID()
	key := record.ObjectKey(id, ext)

	err := s.upstream(ctx, observability.SpanUpload, "storage", func(ctx context.Context) error {
		return s.objects.Put(ctx, key, bytes.NewReader(body), int64(len(body)), contentType)
	})
	if err != nil {
		return "", s.upstreamError("storage", err)
	}
	return s.transcribeAs(ctx, id, key, ext, userID)
}

// UploadURL presigns a direct upload for a recording of contentType.
func (s *Service) UploadURL(ctx context.Context, contentType, userID string) (storage.Presigned, error) {
	if !media.Allowed(contentType) {
		return storage.Presigned{}, apperrors.InvalidInput("contentType", "must be audio/mp4, audio/x-m4a or audio/webm")
	}
	key := media.RecordingName(s.now(), userID, contentType)

	var p storage.Presigned
	err := s.upstream(ctx, observability.SpanPresign, "storage", func(ctx context.Context) error {
		var err error
		p, err = s.objects.PresignPut(ctx, key, media.Base(contentType), s.cfg.UploadURLExpiry)
		return err
	})
	if err != nil {
		return storage.Presigned{}, s.upstreamError("storage", err)
	}
	return p, nil
}

// AudioURL presigns a GET for key with the configured expiry.
func (s *Service) AudioURL(ctx context.Context, key string) (string, error) {
	var url string
	err := s.upstream(ctx, observability.SpanPresign, "storage", func(ctx context.Context) error {
		var err error
		url, err = s.objects.PresignGet(ctx, key, s.cfg.URLExpiry)
		return err
	})
	if err != nil {
		return "", s.upstreamError("storage", err)
	}
	return url, nil
}

func (s *Service) transcribeAs(ctx context.Context, id, key, ext, userID string) (string, error) {
	audioURL, err := s.AudioURL(ctx, key)
	if err != nil {
		return "", err
	}

	var res *transcription.Result
	err = s.upstream(ctx, observability.SpanTranscribe, s.engine.Name(), func(ctx context.Context) error {
		var err error
		res, err = s.engine.Transcribe(ctx, transcription.Request{AudioURL: audioURL})
		return err
	})
	s.metrics.RecordTranscription(ctx, err)
	if err != nil {
		return "", s.upstreamError(s.engine.Name(), err)
	}

	filename := key
	rec := &record.Record{
		ID:            id,
		Extension:     ext,
		Transcription: res.Transcript,
		Metadata:      datatypes.JSON(res.Raw),
		Filename:      &filename,
		UserID:        userID,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return "", err
	}
	s.invalidate(ctx, userID)
	s.log.WithContext(ctx).Info("transcription stored", logger.Fields("id", id, "key", key))

	s.analyzeAsync(ctx, id, userID, res.Raw)
	return id, nil
}

// analyzeAsync runs analysis detached from the request's cancellation but
// keeping its values, so traces and request ids carry over.
func (s *Service) analyzeAsync(parent context.Context, id, userID string, raw json.RawMessage) {
	if s.analyzer == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.cfg.AnalysisTimeout)
		defer cancel()

		err := s.analyze(ctx, id, raw)
		s.metrics.RecordAnalysis(ctx, err)
		log := s.log.WithContext(ctx)
		if err != nil {
			log.Error("analysis failed", logger.Fields("id", id, "error", err.Error()))
			return
		}
		s.invalidate(ctx, userID)
		log.Info("analysis stored", logger.Fields("id", id))
	}()
}

func (s *Service) analyze(ctx context.Context, id string, raw json.RawMessage) (err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanAnalyze,
		attribute.String(observability.AttrRecordID, id))
	defer func() { observability.EndSpan(span, err) }()

	start := time.Now()
	analysis, err := s.analyzer.Analyze(ctx, raw)
	s.metrics.ObserveUpstream(ctx, "llm", time.Since(start), err)
	if err != nil {
		return err
	}
	return s.store.UpdateAnalysis(ctx, id, analysis)
}

// Wait blocks until background analyses finish or ctx ends.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.lists != nil {
		s.lists.Invalidate(ctx, userID)
	}
}

func (s *Service) upstream(ctx context.Context, spanName, upstream string, fn func(context.Context) error) (err error) {
	ctx, span := observability.StartSpan(ctx, spanName, attribute.String(observability.AttrUpstream, upstream))
	defer func() { observability.EndSpan(span, err) }()

	start := time.Now()
	err = fn(ctx)
	s.metrics.ObserveUpstream(ctx, upstream, time.Since(start), err)
	return err
}

func (s *Service) upstreamError(service string, err error) *apperrors.AppError {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	return apperrors.ExternalServiceError(service, err)
}
