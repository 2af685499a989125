package api

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	apperrors "github.com/zillusion/capsule/errors"
	"github.com/zillusion/capsule/internal/demo"
	"github.com/zillusion/capsule/internal/listing"
	"github.com/zillusion/capsule/internal/record"
	"github.com/zillusion/capsule/internal/transcribe"
	"github.com/zillusion/capsule/logger"
	"github.com/zillusion/capsule/server"
	"github.com/zillusion/capsule/server/middleware"
	"github.com/zillusion/capsule/storage"
	"github.com/zillusion/capsule/validation"
)

// Transcriber is the part of transcribe.Service the handlers call.
type Transcriber interface {
	TranscribeKey(ctx context.Context, key, userID string) (string, error)
	TranscribeUpload(ctx context.Context, body []byte, contentType, userID string) (string, error)
	UploadURL(ctx context.Context, contentType, userID string) (storage.Presigned, error)
	AudioURL(ctx context.Context, key string) (string, error)
}

// Lister serves list pages.
type Lister interface {
	Page(ctx context.Context, userID string, page, limit int) (*listing.Page, error)
}

// Handler serves the transcription routes.
type Handler struct {
	records     demo.Store
	policy      demo.Policy
	transcriber Transcriber
	lists       Lister
	log         *logger.Logger
}

func NewHandler(records demo.Store, policy demo.Policy, t Transcriber, lists Lister, log *logger.Logger) *Handler {
	return &Handler{
		records:     records,
		policy:      policy,
		transcriber: t,
		lists:       lists,
		log:         log.WithComponent("api"),
	}
}

// Register adds the routes to r.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/transcription/v2/:id", h.Detail(record.FilenameKey))
	r.GET("/transcription/:id", h.Detail(record.ExtensionKey))
	r.GET("/transcriptionList", h.List)
	r.POST("/startTranscription", h.Start)
	r.POST("/UploadAndTranscribe", h.Upload)
	r.POST("/uploadUrl", h.UploadURL)
}

// Detail returns a record with a presigned audio URL. key picks the object
// key strategy; a record with no stored filename falls back to the legacy
// audio/{id}.{extension} key.
func (h *Handler) Detail(key record.AudioKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		rec, isDemo, err := h.policy.Lookup(ctx, h.records, c.Param("id"), middleware.UserID(c))
		if err != nil {
			server.RespondWithError(c, h.log, err)
			return
		}

		k := key(rec)
		if k == "" {
			k = record.ExtensionKey(rec)
		}
		url, err := h.transcriber.AudioURL(ctx, k)
		if err != nil {
			server.RespondWithError(c, h.log, err)
			return
		}
		server.RespondOK(c, DetailResponse{Record: *rec, Demo: isDemo, AudioURL: url})
	}
}

// List returns one page of the caller's records.
func (h *Handler) List(c *gin.Context) {
	page, limit := listing.ParseQuery(c.Query("page"), c.Query("limit"))
	p, err := h.lists.Page(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		server.RespondWithError(c, h.log, err)
		return
	}
	server.RespondOK(c, p)
}

// Start transcribes an object uploaded directly to storage.
func (h *Handler) Start(c *gin.Context) {
	var req StartRequest
	if err := bind(c, &req); err != nil {
		server.RespondWithError(c, h.log, err)
		return
	}

	userID := middleware.UserID(c)
	if req.UserID != "" && req.UserID != userID {
		h.log.WithContext(c.Request.Context()).Warn("ignoring body userId that differs from token subject")
	}

	id, err := h.transcriber.TranscribeKey(c.Request.Context(), req.Key, userID)
	if err != nil {
		server.RespondWithError(c, h.log, err)
		return
	}
	server.RespondOK(c, StartResponse{Message: transcriptionSuccessful, ID: id})
}

// Upload accepts a multipart "audio" file and transcribes it.
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("audio")
	if err != nil {
		server.RespondWithError(c, h.log, transcribe.NoAudioError())
		return
	}
	f, err := fh.Open()
	if err != nil {
		server.RespondWithError(c, h.log, apperrors.Internal(err))
		return
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		server.RespondWithError(c, h.log, apperrors.Internal(err))
		return
	}

	id, err := h.transcriber.TranscribeUpload(c.Request.Context(), body, fh.Header.Get("Content-Type"), middleware.UserID(c))
	if err != nil {
		server.RespondWithError(c, h.log, err)
		return
	}
	server.RespondOK(c, StartResponse{Message: transcriptionSuccessful, ID: id})
}

// UploadURL presigns a direct upload.
func (h *Handler) UploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := bind(c, &req); err != nil {
		server.RespondWithError(c, h.log, err)
		return
	}
	p, err := h.transcriber.UploadURL(c.Request.Context(), req.ContentType, middleware.UserID(c))
	if err != nil {
		server.RespondWithError(c, h.log, err)
		return
	}
	server.RespondOK(c, p)
}

func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.Malformed("request body", err)
	}
	return validation.Validate(dst)
}
