package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/zillusion/capsule/database/testutil"
	apperrors "github.com/zillusion/capsule/errors"
	"github.com/zillusion/capsule/internal/record"
	"github.com/zillusion/capsule/storage"
	"github.com/zillusion/capsule/transcription"
)

const engineRaw = `{"metadata":{"duration":3.5},"results":{"utterances":[{"channel":0,"speaker":0,"transcript":"hi"}]}}`

type fakeEngine struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (f *fakeEngine) Name() string { return "deepgram" }

func (f *fakeEngine) Transcribe(_ context.Context, req transcription.Request) (*transcription.Result, error) {
	f.mu.Lock()
	f.urls = append(f.urls, req.AudioURL)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &transcription.Result{Transcript: "hi", Raw: json.RawMessage(engineRaw), Duration: 3.5}, nil
}

type fakeAnalyzer struct {
	out     string
	err     error
	release chan struct{}
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, _ json.RawMessage) (datatypes.JSON, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return datatypes.JSON(f.out), f.err
}

type countingInvalidator struct {
	mu    sync.Mutex
	users []string
}

func (c *countingInvalidator) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append(c.users, userID)
}

type fixture struct {
	svc     *Service
	repo    *record.Repository
	objects *storage.Memory
	engine  *fakeEngine
	lists   *countingInvalidator
}

func newFixture(t *testing.T, analyzer Analyzer) *fixture {
	t.Helper()
	f := &fixture{
		repo:    record.NewRepository(testutil.Open(t, &record.Record{})),
		objects: storage.NewMemory(),
		engine:  &fakeEngine{},
		lists:   &countingInvalidator{},
	}
	opts := []Option{
		WithInvalidator(f.lists),
		WithClock(func() time.Time { return time.UnixMilli(1700000000000) }, func() string { return "rec-1" }),
	}
	if analyzer != nil {
		opts = append(opts, WithAnalyzer(analyzer))
	}
	f.svc = NewService(Config{}, f.objects, f.engine, f.repo, opts...)
	return f
}

func wait(t *testing.T, s *Service) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestTranscribeKey(t *testing.T) {
	f := newFixture(t, &fakeAnalyzer{out: `{"Conclusion":{"insights":"good"}}`})
	ctx := context.Background()

	id, err := f.svc.TranscribeKey(ctx, "recording-1-u1.webm", "u1")
	if err != nil {
		t.Fatalf("TranscribeKey: %v", err)
	}
	if id != "rec-1" {
		t.Errorf("expected rec-1, got %s", id)
	}
	if len(f.engine.urls) != 1 || !strings.Contains(f.engine.urls[0], "/recording-1-u1.webm") || !strings.Contains(f.engine.urls[0], "expires=3600") {
		t.Errorf("engine got %v", f.engine.urls)
	}

	wait(t, f.svc)
	rec, err := f.repo.GetOwned(ctx, id, "u1")
	if err != nil {
		t.Fatalf("GetOwned: %v", err)
	}
	if rec.Extension != "webm" || rec.FilenameOrEmpty() != "recording-1-u1.webm" || rec.Transcription != "hi" {
		t.Errorf("unexpected record %+v", rec)
	}
	if !rec.Analyzed() {
		t.Error("expected analysis stored")
	}
	if len(f.lists.users) != 2 {
		t.Errorf("expected invalidation on insert and analysis, got %v", f.lists.users)
	}
}

func TestTranscribeKeyDefaults(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.svc.TranscribeKey(context.Background(), "  ", "u1"); !apperrors.IsCode(err, apperrors.ErrCodeMissingField) {
		t.Errorf("expected missing field, got %v", err)
	}
	id, err := f.svc.TranscribeKey(context.Background(), "recording-2-u1", "u1")
	if err != nil {
		t.Fatalf("TranscribeKey: %v", err)
	}
	rec, _ := f.repo.Get(context.Background(), id)
	if rec.Extension != "m4a" {
		t.Errorf("expected default m4a, got %q", rec.Extension)
	}
}

func TestTranscribeKeyRejectsOtherUsersUpload(t *testing.T) {
	f := newFixture(t, nil)
	for _, key := range []string{"recording-1-u2.webm", "audio/rec-1.m4a", "recording-1-u1x.webm"} {
		_, err := f.svc.TranscribeKey(context.Background(), key, "u1")
		if !apperrors.IsCode(err, apperrors.ErrCodeForbidden) {
			t.Errorf("key %q: expected forbidden, got %v", key, err)
		}
	}
	if len(f.engine.urls) != 0 {
		t.Errorf("engine called for rejected keys: %v", f.engine.urls)
	}
	if n, _ := f.repo.CountByUser(context.Background(), "u1"); n != 0 {
		t.Errorf("expected nothing persisted, got %d records", n)
	}
}

func TestAnalysisFailureKeepsRecord(t *testing.T) {
	f := newFixture(t, &fakeAnalyzer{err: errors.New("model overloaded")})
	id, err := f.svc.TranscribeKey(context.Background(), "recording-3-u1.m4a", "u1")
	if err != nil {
		t.Fatalf("TranscribeKey: %v", err)
	}
	wait(t, f.svc)
	rec, err := f.repo.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("record missing after analysis failure: %v", err)
	}
	if rec.Analyzed() {
		t.Error("expected analysis to stay NULL")
	}
}

func TestAnalysisOutlivesRequest(t *testing.T) {
	a := &fakeAnalyzer{out: `{"ok":true}`, release: make(chan struct{})}
	f := newFixture(t, a)

	ctx, cancel := context.WithCancel(context.Background())
	id, err := f.svc.TranscribeKey(ctx, "recording-3-u1.m4a", "u1")
	if err != nil {
		t.Fatalf("TranscribeKey: %v", err)
	}
	cancel()
	close(a.release)
	wait(t, f.svc)

	rec, _ := f.repo.Get(context.Background(), id)
	if !rec.Analyzed() {
		t.Error("expected analysis to finish after the request context ended")
	}
}

func TestStopWaitsForAnalysis(t *testing.T) {
	a := &fakeAnalyzer{out: `{}`, release: make(chan struct{})}
	f := newFixture(t, a)
	if _, err := f.svc.TranscribeKey(context.Background(), "recording-3-u1.m4a", "u1"); err != nil {
		t.Fatalf("TranscribeKey: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := f.svc.Stop(ctx); err == nil {
		t.Fatal("expected Stop to time out while analysis is blocked")
	}
	close(a.release)
	if err := f.svc.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestEngineFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.err = errors.New("connection reset")

	_, err := f.svc.TranscribeKey(context.Background(), "recording-3-u1.m4a", "u1")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeExternalService || appErr.Message != "An error occurred" {
		t.Fatalf("expected external service error, got %v", err)
	}
	if n, _ := f.repo.CountByUser(context.Background(), "u1"); n != 0 {
		t.Errorf("expected nothing persisted, got %d records", n)
	}
}

func TestTranscribeUpload(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.TranscribeUpload(ctx, nil, "audio/webm", "u1"); !apperrors.IsCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected invalid input for empty body, got %v", err)
	}

	id, err := f.svc.TranscribeUpload(ctx, []byte("OggS"), "audio/webm;codecs=opus", "u1")
	if err != nil {
		t.Fatalf("TranscribeUpload: %v", err)
	}
	obj, ok := f.objects.Object("audio/rec-1.webm")
	if !ok || string(obj.Data) != "OggS" || obj.ContentType != "audio/webm;codecs=opus" {
		t.Fatalf("object not stored as expected: %+v %v", obj, ok)
	}
	rec, _ := f.repo.Get(ctx, id)
	if rec.Extension != "webm" || rec.FilenameOrEmpty() != "audio/rec-1.webm" {
		t.Errorf("unexpected record %+v", rec)
	}
	if record.ExtensionKey(rec) != record.FilenameKey(rec) {
		t.Error("expected both audio key strategies to agree for uploads")
	}
}

func TestUploadURL(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	p, err := f.svc.UploadURL(ctx, "audio/mp4", "u1")
	if err != nil {
		t.Fatalf("UploadURL: %v", err)
	}
	if p.Key != "recording-1700000000000-u1.m4a" || p.Method != "PUT" {
		t.Errorf("unexpected presign %+v", p)
	}
	if !strings.Contains(p.URL, "expires=900") {
		t.Errorf("expected 15 minute expiry, got %s", p.URL)
	}

	if _, err := f.svc.UploadURL(ctx, "video/mp4", "u1"); !apperrors.IsCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}
