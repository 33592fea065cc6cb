package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/kdduha/reels-caption/internal/config"
	"github.com/kdduha/reels-caption/internal/media"
	"github.com/kdduha/reels-caption/internal/metrics"
	"github.com/kdduha/reels-caption/internal/models"
	"github.com/kdduha/reels-caption/internal/prompt"
	"github.com/kdduha/reels-caption/internal/sanitize"
)

const (
	StageImage    = "Processing image..."
	StageVideo    = "Processing video..."
	StageGenerate = "Generating caption..."
)

type Cache interface {
	Get(ctx context.Context, key string) (models.CachedCaption, bool, error)
	Set(ctx context.Context, key string, entry models.CachedCaption) error
}

type generator interface {
	Generate(ctx context.Context, apiKey string, payloads []models.EncodedPayload, instruction string, maxOutputTokens int) (string, error)
}

type frameExtractor interface {
	Extract(ctx context.Context, file models.MediaFile) (models.EncodedPayload, error)
	VideoFormats() []string
}

// ProgressFunc receives advisory stage labels while a caption is being made.
type ProgressFunc func(stage string)

type CaptionService struct {
	logger        *log.Logger
	validator     *media.Validator
	frames        frameExtractor
	generator     generator
	defaultAPIKey string
	cache         Cache
}

func NewCaptionService(
	logger *log.Logger,
	validator *media.Validator,
	frames frameExtractor,
	generator generator,
	cfg config.GeminiConfig,
) *CaptionService {
	return &CaptionService{
		logger:        logger,
		validator:     validator,
		frames:        frames,
		generator:     generator,
		defaultAPIKey: cfg.APIKey,
	}
}

func (s *CaptionService) SetCacheClient(cache Cache) {
	s.cache = cache
}

func (s *CaptionService) MaxFileSize() int64 {
	return s.validator.MaxFileSize()
}

func (s *CaptionService) VideoFormats() []string {
	if s.frames == nil {
		return nil
	}
	return s.frames.VideoFormats()
}

// Generate runs one caption action: validate, turn the media into a payload,
// compose the instruction, call the backend and clean the answer.
func (s *CaptionService) Generate(ctx context.Context, req *models.CaptionRequest, progress ProgressFunc) (*models.CaptionResponse, error) {
	if progress == nil {
		progress = func(string) {}
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = s.defaultAPIKey
	}
	if apiKey == "" {
		return nil, models.NewError(models.KindInvalidInput, nil, "api key is required")
	}

	if err := s.validator.Validate(req.File); err != nil {
		return nil, err
	}

	p, err := prompt.Compose(req.Options)
	if err != nil {
		return nil, err
	}

	kind := media.Kind(req.File.MimeType)
	payload, err := s.preprocess(ctx, kind, req.File, progress)
	if err != nil {
		return nil, err
	}

	// A hit is served without contacting the backend, so the caller's key
	// is not checked against it.
	key := cacheKey(payload, req.Options)
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Printf("cache get error: %v\n", err)
		}
		metrics.CacheLookup(found)
		if found {
			s.logger.Println("served from cache")
			return &models.CaptionResponse{Caption: cached.Caption, MediaKind: cached.MediaKind, Cached: true}, nil
		}
	}

	progress(StageGenerate)
	start := time.Now()
	raw, err := s.generator.Generate(ctx, apiKey, []models.EncodedPayload{payload}, p.Instruction, p.MaxOutputTokens)
	if err != nil && models.KindOf(err) == "" {
		err = models.NewError(models.KindGenerationFailed, err, "generation failed")
	}
	metrics.Generation(outcome(err), time.Since(start))
	if err != nil {
		s.logger.Printf("generation failed for %s: %v\n", req.File.Name, err)
		return nil, err
	}

	caption := sanitize.Caption(raw, req.Options.WithHashtags)

	if s.cache != nil {
		entry := models.CachedCaption{
			Caption:   caption,
			MediaKind: kind,
			Style:     req.Options.Style,
			Length:    req.Options.Length,
		}
		if err := s.cache.Set(ctx, key, entry); err != nil {
			s.logger.Printf("failed to set cache: %v\n", err)
		}
	}
	return &models.CaptionResponse{Caption: caption, MediaKind: kind}, nil
}

func (s *CaptionService) preprocess(
	ctx context.Context,
	kind string,
	file models.MediaFile,
	progress ProgressFunc,
) (models.EncodedPayload, error) {
	s.logger.Printf("start preprocessing %s: %s (%d bytes)\n", kind, file.Name, file.Size)
	start := time.Now()

	var (
		payload models.EncodedPayload
		err     error
	)
	switch kind {
	case media.KindImage:
		progress(StageImage)
		payload, err = media.EncodePayload(file)
	case media.KindVideo:
		progress(StageVideo)
		payload, err = s.frames.Extract(ctx, file)
	default:
		err = models.NewError(models.KindInvalidInput, nil, "unsupported type %q", file.MimeType)
	}

	status := "ok"
	if err != nil {
		status = "error"
		s.logger.Printf("failed preprocessing %s: %v\n", file.Name, err)
	}
	metrics.MediaPreprocess(status, kind, time.Since(start))
	return payload, err
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(models.KindOf(err))
}

// cacheKey fingerprints what the backend sees, never the API key.
func cacheKey(payload models.EncodedPayload, opts models.CaptionOptions) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s-%s-%t-%s-", opts.Style, opts.Length, opts.WithHashtags, payload.MimeType)
	h.Write([]byte(payload.Data))
	return hex.EncodeToString(h.Sum(nil))
}
