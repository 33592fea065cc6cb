package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/kdduha/reels-caption/internal/config"
	"github.com/kdduha/reels-caption/internal/gemini"
	"github.com/kdduha/reels-caption/internal/media"
	"github.com/kdduha/reels-caption/internal/models"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	text string
	err  error

	calls       int
	apiKey      string
	payloads    []models.EncodedPayload
	instruction string
	maxTokens   int
}

func (g *fakeGenerator) Generate(_ context.Context, apiKey string, payloads []models.EncodedPayload, instruction string, maxOutputTokens int) (string, error) {
	g.calls++
	g.apiKey = apiKey
	g.payloads = payloads
	g.instruction = instruction
	g.maxTokens = maxOutputTokens
	return g.text, g.err
}

type fakeFrames struct {
	payload models.EncodedPayload
	err     error
	calls   int
}

func (f *fakeFrames) Extract(_ context.Context, file models.MediaFile) (models.EncodedPayload, error) {
	f.calls++
	if _, err := io.ReadAll(file.Content); err != nil {
		return models.EncodedPayload{}, err
	}
	return f.payload, f.err
}

func (f *fakeFrames) VideoFormats() []string { return []string{"video/mpeg"} }

type mapCache struct {
	data   map[string]models.CachedCaption
	getErr error
}

func (m *mapCache) Get(_ context.Context, key string) (models.CachedCaption, bool, error) {
	if m.getErr != nil {
		return models.CachedCaption{}, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, entry models.CachedCaption) error {
	m.data[key] = entry
	return nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newService(gen generator, frames frameExtractor, defaultKey string) *CaptionService {
	return NewCaptionService(testLogger(), media.NewValidator(0), frames, gen, config.GeminiConfig{APIKey: defaultKey})
}

func imageRequest(opts models.CaptionOptions) *models.CaptionRequest {
	data := []byte("\x89PNG fake image")
	return &models.CaptionRequest{
		File:    models.MediaFile{Name: "cat.png", MimeType: "image/png", Size: int64(len(data)), Content: bytes.NewReader(data)},
		Options: opts,
		APIKey:  "user-key",
	}
}

func TestGenerateImageEndToEnd(t *testing.T) {
	var sent map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(raw, &sent)
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"**Hook:** Love this! (so cute)"}]},"finishReason":"STOP"}]}`)
	}))
	defer srv.Close()

	client := gemini.NewClient(config.GeminiConfig{Endpoint: srv.URL, Timeout: time.Second}, srv.Client())
	svc := NewCaptionService(testLogger(), media.NewValidator(0), media.NewFrameExtractor(nil, 0), client, config.GeminiConfig{})

	var stages []string
	resp, err := svc.Generate(context.Background(),
		imageRequest(models.CaptionOptions{Style: models.StyleWholesome, Length: models.LengthMedium}),
		func(stage string) { stages = append(stages, stage) })
	require.NoError(t, err)
	require.Equal(t, "Love this!", resp.Caption)
	require.Equal(t, media.KindImage, resp.MediaKind)
	require.False(t, resp.Cached)
	require.Equal(t, []string{StageImage, StageGenerate}, stages)

	parts := sent["contents"].([]any)[0].(map[string]any)["parts"].([]any)
	instruction := parts[0].(map[string]any)["text"].(string)
	require.Contains(t, instruction, "wholesome")
	require.Contains(t, instruction, "Panjang: 3-5 baris.")
	require.NotContains(t, instruction, "hashtag")
	require.EqualValues(t, 70, sent["generationConfig"].(map[string]any)["maxOutputTokens"])
	inline := parts[1].(map[string]any)["inline_data"].(map[string]any)
	require.Equal(t, "image/png", inline["mime_type"])
}

func TestGenerateVideoUsesFrame(t *testing.T) {
	gen := &fakeGenerator{text: "Wow!!"}
	frames := &fakeFrames{payload: models.EncodedPayload{Data: "/9j/", MimeType: "image/jpeg"}}
	svc := newService(gen, frames, "")

	var stages []string
	resp, err := svc.Generate(context.Background(), &models.CaptionRequest{
		File:    models.MediaFile{Name: "clip.mpg", MimeType: "video/mpeg", Size: 3, Content: strings.NewReader("abc")},
		Options: models.CaptionOptions{Style: models.StyleWow, Length: models.LengthShort, WithHashtags: true},
		APIKey:  "k",
	}, func(s string) { stages = append(stages, s) })
	require.NoError(t, err)

	require.Equal(t, "Wow!!\n#fyp #viral #trending", resp.Caption)
	require.Equal(t, media.KindVideo, resp.MediaKind)
	require.Equal(t, []string{StageVideo, StageGenerate}, stages)
	require.Equal(t, 1, frames.calls)
	require.Equal(t, []models.EncodedPayload{{Data: "/9j/", MimeType: "image/jpeg"}}, gen.payloads)
	require.Equal(t, 60, gen.maxTokens)
}

func TestGenerateAPIKey(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}

	req := imageRequest(models.CaptionOptions{Style: models.StyleAuto, Length: models.LengthShort})
	req.APIKey = ""
	_, err := newService(gen, nil, "").Generate(context.Background(), req, nil)
	require.ErrorIs(t, err, models.ErrInvalidInput)
	require.ErrorContains(t, err, "api key")
	require.Zero(t, gen.calls)

	req = imageRequest(models.CaptionOptions{Style: models.StyleAuto, Length: models.LengthShort})
	req.APIKey = ""
	_, err = newService(gen, nil, "server-key").Generate(context.Background(), req, nil)
	require.NoError(t, err)
	require.Equal(t, "server-key", gen.apiKey)

	_, err = newService(gen, nil, "server-key").Generate(context.Background(),
		imageRequest(models.CaptionOptions{Style: models.StyleAuto, Length: models.LengthShort}), nil)
	require.NoError(t, err)
	require.Equal(t, "user-key", gen.apiKey)
}

func TestGenerateRejectsBeforeWork(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	frames := &fakeFrames{}
	svc := newService(gen, frames, "k")

	_, err := svc.Generate(context.Background(), &models.CaptionRequest{
		File:    models.MediaFile{Name: "notes.txt", MimeType: "text/plain", Size: 5, Content: strings.NewReader("hello")},
		Options: models.CaptionOptions{Style: models.StyleAuto, Length: models.LengthShort},
	}, nil)
	require.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Generate(context.Background(), &models.CaptionRequest{
		File:    models.MediaFile{Name: "big.mp4", MimeType: "video/mp4", Size: media.DefaultMaxFileSize + 1},
		Options: models.CaptionOptions{Style: models.StyleAuto, Length: models.LengthShort},
	}, nil)
	require.ErrorIs(t, err, models.ErrInvalidInput)
	require.ErrorContains(t, err, "150MB")

	_, err = svc.Generate(context.Background(), imageRequest(models.CaptionOptions{Style: "meh", Length: models.LengthShort}), nil)
	require.ErrorIs(t, err, models.ErrInvalidInput)

	require.Zero(t, gen.calls)
	require.Zero(t, frames.calls)
}

func TestGeneratePropagatesTypedErrors(t *testing.T) {
	opts := models.CaptionOptions{Style: models.StyleLucu, Length: models.LengthLong}

	truncated := models.NewError(models.KindTruncated, nil, "response was truncated, try a shorter output length")
	_, err := newService(&fakeGenerator{err: truncated}, nil, "k").Generate(context.Background(), imageRequest(opts), nil)
	require.ErrorIs(t, err, models.ErrTruncated)

	_, err = newService(&fakeGenerator{err: errors.New("boom")}, nil, "k").Generate(context.Background(), imageRequest(opts), nil)
	require.ErrorIs(t, err, models.ErrGenerationFailed)
	require.ErrorContains(t, err, "boom")

	frameErr := &models.Error{Kind: models.KindFrameExtraction, Err: media.ErrLoadVideo}
	_, err = newService(&fakeGenerator{}, &fakeFrames{err: frameErr}, "k").Generate(context.Background(), &models.CaptionRequest{
		File:    models.MediaFile{Name: "clip.mp4", MimeType: "video/mp4", Size: 1, Content: strings.NewReader("x")},
		Options: opts,
		APIKey:  "k",
	}, nil)
	require.ErrorIs(t, err, media.ErrLoadVideo)
}

func TestGenerateCache(t *testing.T) {
	gen := &fakeGenerator{text: "Gemes (banget)"}
	svc := newService(gen, nil, "k")
	cache := &mapCache{data: map[string]models.CachedCaption{}}
	svc.SetCacheClient(cache)
	opts := models.CaptionOptions{Style: models.StyleAuto, Length: models.LengthMedium}

	first, err := svc.Generate(context.Background(), imageRequest(opts), nil)
	require.NoError(t, err)
	require.False(t, first.Cached)
	require.Len(t, cache.data, 1)
	for _, v := range cache.data {
		require.Equal(t, models.CachedCaption{
			Caption:   "Gemes",
			MediaKind: media.KindImage,
			Style:     models.StyleAuto,
			Length:    models.LengthMedium,
		}, v)
	}

	var stages []string
	second, err := svc.Generate(context.Background(), imageRequest(opts), func(s string) { stages = append(stages, s) })
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, "Gemes", second.Caption)
	require.Equal(t, media.KindImage, second.MediaKind)
	require.Equal(t, 1, gen.calls)
	require.Equal(t, []string{StageImage}, stages)

	opts.WithHashtags = true
	_, err = svc.Generate(context.Background(), imageRequest(opts), nil)
	require.NoError(t, err)
	require.Equal(t, 2, gen.calls)
}

func TestGenerateCacheErrorsAreNotFatal(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	svc := newService(gen, nil, "k")
	svc.SetCacheClient(&mapCache{data: map[string]models.CachedCaption{}, getErr: errors.New("redis down")})

	resp, err := svc.Generate(context.Background(), imageRequest(models.CaptionOptions{Style: models.StyleAuto, Length: models.LengthShort}), nil)
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Caption)
}

func TestGenerateCacheHitSkipsBackendKey(t *testing.T) {
	gen := &fakeGenerator{text: "Gemes"}
	svc := newService(gen, nil, "")
	svc.SetCacheClient(&mapCache{data: map[string]models.CachedCaption{}})
	opts := models.CaptionOptions{Style: models.StyleWow, Length: models.LengthShort}

	_, err := svc.Generate(context.Background(), imageRequest(opts), nil)
	require.NoError(t, err)
	require.Equal(t, "user-key", gen.apiKey)

	req := imageRequest(opts)
	req.APIKey = "some-other-key"
	resp, err := svc.Generate(context.Background(), req, nil)
	require.NoError(t, err)
	require.True(t, resp.Cached)
	require.Equal(t, 1, gen.calls)
	require.Equal(t, "user-key", gen.apiKey)

	req = imageRequest(opts)
	req.APIKey = ""
	_, err = svc.Generate(context.Background(), req, nil)
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestVideoFormats(t *testing.T) {
	require.Empty(t, newService(&fakeGenerator{}, nil, "k").VideoFormats())
	require.Equal(t, []string{"video/mpeg"}, newService(&fakeGenerator{}, &fakeFrames{}, "k").VideoFormats())
}

func TestCacheKey(t *testing.T) {
	p := models.EncodedPayload{Data: "abc", MimeType: "image/png"}
	opts := models.CaptionOptions{Style: models.StyleAuto, Length: models.LengthShort}
	require.Equal(t, cacheKey(p, opts), cacheKey(p, opts))
	require.NotEqual(t, cacheKey(p, opts), cacheKey(models.EncodedPayload{Data: "abd", MimeType: "image/png"}, opts))
	require.Len(t, cacheKey(p, opts), 64)
}
