package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/base64x"
	"github.com/gabriel-vasile/mimetype"
	"github.com/kdduha/reels-caption/internal/models"
	"github.com/kdduha/reels-caption/internal/service"
)

const (
	APIKeyHeader = "X-API-Key"

	formFile     = "file"
	formStyle    = "style"
	formLength   = "length"
	formHashtags = "hashtags"

	multipartMemory = 32 << 20
	uploadSlack     = 1 << 20
)

type captionService interface {
	Generate(ctx context.Context, req *models.CaptionRequest, progress service.ProgressFunc) (*models.CaptionResponse, error)
	MaxFileSize() int64
	VideoFormats() []string
}

type CaptionHandler struct {
	service captionService
}

func NewCaptionHandler(service captionService) *CaptionHandler {
	return &CaptionHandler{
		service: service,
	}
}

// Caption godoc
// @Summary Generate caption for uploaded media
// @Description Upload an image or video as multipart form data and get a reels caption back.
// @Description Videos are decoded in process: only the types in /options video_formats (MPEG-1 by default) can be captioned, others fail with frame_extraction.
// @Tags caption
// @Accept multipart/form-data
// @Produce json
// @Param X-API-Key header string false "Gemini API key, falls back to the server key"
// @Param file formData file true "Image or video"
// @Param style formData string false "Reaction style" Enums(auto, wow, kagum, wholesome, lucu, mindblown)
// @Param length formData string false "Output length" Enums(short, medium, long)
// @Param hashtags formData bool false "Append hashtags"
// @Success 200 {object} models.CaptionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /caption [post]
func (h *CaptionHandler) Caption(w http.ResponseWriter, r *http.Request) {
	req, cleanup, err := h.parseMultipart(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer cleanup()

	resp, err := h.service.Generate(r.Context(), req, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CaptionJSON godoc
// @Summary Generate caption for base64 media
// @Description Same as /caption, but the file is sent as a base64 string in JSON.
// @Tags caption
// @Accept json
// @Produce json
// @Param X-API-Key header string false "Gemini API key, falls back to the server key"
// @Param request body models.CaptionJSONRequest true "Caption request"
// @Success 200 {object} models.CaptionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /caption/json [post]
func (h *CaptionHandler) CaptionJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, base64Limit(h.service.MaxFileSize()))

	var body models.CaptionJSONRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, requestError(err, h.service.MaxFileSize(), "invalid JSON"))
		return
	}
	if err := body.Validate(); err != nil {
		writeError(w, models.NewError(models.KindInvalidInput, err, "request validation failed"))
		return
	}

	encoded := body.FileBase64
	if strings.HasPrefix(encoded, "data:") {
		if _, rest, ok := strings.Cut(encoded, ","); ok {
			encoded = rest
		}
	}
	data, err := base64x.StdEncoding.DecodeString(encoded)
	if err != nil {
		writeError(w, models.NewError(models.KindInvalidInput, err, "file_base64 is not valid base64"))
		return
	}

	opts, err := parseOptions(body.Style, body.Length, strconv.FormatBool(body.WithHashtags))
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.service.Generate(r.Context(), &models.CaptionRequest{
		File: models.MediaFile{
			Name:     body.FileName,
			MimeType: body.MimeType,
			Size:     int64(len(data)),
			Content:  bytes.NewReader(data),
		},
		Options: opts,
		APIKey:  r.Header.Get(APIKeyHeader),
	}, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CaptionStream godoc
// @Summary Generate caption with progress events
// @Description Multipart upload like /caption, with the same video_formats restriction. Emits "progress" events with stage labels, then "message" with the caption followed by "done", or a single "error".
// @Tags caption
// @Accept multipart/form-data
// @Produce text/event-stream
// @Param X-API-Key header string false "Gemini API key, falls back to the server key"
// @Param file formData file true "Image or video"
// @Param style formData string false "Reaction style"
// @Param length formData string false "Output length"
// @Param hashtags formData bool false "Append hashtags"
// @Success 200 {object} models.StreamEvent "Stream of events (SSE)"
// @Failure 400 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Router /caption/stream [post]
func (h *CaptionHandler) CaptionStream(w http.ResponseWriter, r *http.Request) {
	req, cleanup, err := h.parseMultipart(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer cleanup()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher := http.NewResponseController(w)
	send := func(event string, v models.StreamEvent) {
		data, err := sonic.Marshal(v)
		if err != nil {
			fmt.Fprintf(w, "event: error\ndata: marshal error %v\n\n", err)
			flusher.Flush()
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
	}

	resp, err := h.service.Generate(r.Context(), req, func(stage string) {
		send("progress", models.StreamEvent{Stage: stage})
	})
	if err != nil {
		send("error", models.StreamEvent{Kind: string(models.KindOf(err)), Error: errorMessage(err)})
		return
	}

	send("message", models.StreamEvent{Caption: resp.Caption})
	fmt.Fprintf(w, "event: done\ndata: {}\n\n")
	flusher.Flush()
}

// Options godoc
// @Summary List caption options
// @Description Styles, lengths, the upload size limit and the video MIME types the server can decode.
// @Tags caption
// @Produce json
// @Success 200 {object} models.OptionsResponse
// @Router /options [get]
func (h *CaptionHandler) Options(w http.ResponseWriter, r *http.Request) {
	resp := models.OptionsResponse{
		MaxFileSizeMiB: h.service.MaxFileSize() >> 20,
		VideoFormats:   h.service.VideoFormats(),
	}
	if resp.VideoFormats == nil {
		resp.VideoFormats = []string{}
	}
	for _, s := range models.AllReactionStyles() {
		resp.Styles = append(resp.Styles, models.Option{ID: string(s), Label: s.Label()})
	}
	for _, l := range models.AllOutputLengths() {
		resp.Lengths = append(resp.Lengths, models.Option{ID: string(l), Label: l.Label()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CaptionHandler) parseMultipart(w http.ResponseWriter, r *http.Request) (*models.CaptionRequest, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.service.MaxFileSize()+uploadSlack)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, nil, requestError(err, h.service.MaxFileSize(), "invalid multipart form")
	}

	f, fh, err := r.FormFile(formFile)
	if err != nil {
		r.MultipartForm.RemoveAll()
		return nil, nil, models.NewError(models.KindInvalidInput, err, "file is required")
	}
	cleanup := func() {
		f.Close()
		r.MultipartForm.RemoveAll()
	}

	mimeType, err := declaredType(fh.Header.Get("Content-Type"), f)
	if err != nil {
		cleanup()
		return nil, nil, models.NewError(models.KindMediaRead, err, "failed to read %q", fh.Filename)
	}

	opts, err := parseOptions(r.FormValue(formStyle), r.FormValue(formLength), r.FormValue(formHashtags))
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return &models.CaptionRequest{
		File: models.MediaFile{
			Name:     fh.Filename,
			MimeType: mimeType,
			Size:     fh.Size,
			Content:  f,
		},
		Options: opts,
		APIKey:  r.Header.Get(APIKeyHeader),
	}, cleanup, nil
}

// declaredType trusts the part's Content-Type and only sniffs when the client sent none.
func declaredType(header string, f multipart.File) (string, error) {
	if mt, _, err := mime.ParseMediaType(header); err == nil && mt != "application/octet-stream" {
		return mt, nil
	}

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	mt, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return detected.String(), nil
	}
	return mt, nil
}

func parseOptions(style, length, hashtags string) (models.CaptionOptions, error) {
	s, err := models.ParseReactionStyle(style)
	if err != nil {
		return models.CaptionOptions{}, models.NewError(models.KindInvalidInput, err, "invalid style")
	}
	l, err := models.ParseOutputLength(length)
	if err != nil {
		return models.CaptionOptions{}, models.NewError(models.KindInvalidInput, err, "invalid length")
	}
	var tags bool
	if hashtags != "" {
		if tags, err = strconv.ParseBool(hashtags); err != nil {
			return models.CaptionOptions{}, models.NewError(models.KindInvalidInput, err, "invalid hashtags flag")
		}
	}
	return models.CaptionOptions{Style: s, Length: l, WithHashtags: tags}, nil
}

func base64Limit(maxFileSize int64) int64 {
	return maxFileSize/3*4 + 4 + uploadSlack
}

// tooLargeError is a body cut off by http.MaxBytesReader. It reports the
// configured file limit, not the transport limit with its envelope slack.
type tooLargeError struct{ maxFileSize int64 }

func (e tooLargeError) Error() string {
	return fmt.Sprintf("file too large: maximum size is %dMB", e.maxFileSize>>20)
}

func requestError(err error, maxFileSize int64, msg string) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return tooLargeError{maxFileSize: maxFileSize}
	}
	return models.NewError(models.KindInvalidInput, err, "%s", msg)
}

func statusFor(err error) int {
	var tooLarge tooLargeError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch models.KindOf(err) {
	case models.KindInvalidInput:
		return http.StatusBadRequest
	case models.KindMediaRead, models.KindFrameExtraction, models.KindContentBlocked, models.KindTruncated:
		return http.StatusUnprocessableEntity
	case models.KindGenerationFailed, models.KindEmptyResponse, models.KindMalformedResponse:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func errorMessage(err error) string {
	return strings.Join(strings.Fields(err.Error()), " ")
}

func writeError(w http.ResponseWriter, err error) {
	kind := models.KindOf(err)
	if kind == "" {
		var tooLarge tooLargeError
		if errors.As(err, &tooLarge) {
			kind = models.KindInvalidInput
		}
	}
	writeJSON(w, statusFor(err), models.ErrorResponse{Error: errorMessage(err), Kind: string(kind)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigDefault.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, `{"error":"failed to encode: %s"}`, err)
	}
}
