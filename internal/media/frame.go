package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"time"

	"github.com/cloudwego/base64x"
	"github.com/kdduha/reels-caption/internal/models"
	"golang.org/x/image/draw"
)

const (
	FrameWidth   = 320
	FrameHeight  = 180
	FrameQuality = 80
	FrameMime    = "image/jpeg"

	DefaultFrameTimeout = 15 * time.Second
)

var (
	ErrLoadVideo          = errors.New("failed to load video")
	ErrExtractFrame       = errors.New("failed to extract frame")
	ErrSeekTimeout        = errors.New("timed out seeking video frame")
	ErrDecoderUnavailable = errors.New("video decoding unavailable")
)

// VideoDecoder loads a video from bytes held in memory. Formats lists the
// MIME types it can open; other video types fail with ErrLoadVideo.
type VideoDecoder interface {
	Name() string
	Formats() []string
	Open(r io.Reader) (Video, error)
}

// Video is an opened, seekable video. Close releases whatever Open acquired.
type Video interface {
	Duration() time.Duration
	Size() (width, height int)
	FrameAt(t time.Duration) (image.Image, error)
	Close() error
}

// FrameExtractor turns a video into one representative JPEG frame.
type FrameExtractor struct {
	decoder VideoDecoder
	timeout time.Duration
}

// NewFrameExtractor builds an extractor. A nil decoder makes every Extract fail
// with ErrDecoderUnavailable.
func NewFrameExtractor(decoder VideoDecoder, timeout time.Duration) *FrameExtractor {
	if timeout <= 0 {
		timeout = DefaultFrameTimeout
	}
	return &FrameExtractor{decoder: decoder, timeout: timeout}
}

// VideoFormats reports the video MIME types the configured decoder can open.
func (f *FrameExtractor) VideoFormats() []string {
	if f.decoder == nil {
		return nil
	}
	return f.decoder.Formats()
}

type captureResult struct {
	payload models.EncodedPayload
	err     error
}

func (f *FrameExtractor) Extract(ctx context.Context, file models.MediaFile) (models.EncodedPayload, error) {
	if f.decoder == nil {
		return models.EncodedPayload{}, frameError(ErrDecoderUnavailable, nil)
	}

	data, err := readAll(file)
	if err != nil {
		return models.EncodedPayload{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	done := make(chan captureResult, 1)
	go func() {
		payload, err := f.capture(data)
		done <- captureResult{payload: payload, err: err}
	}()

	select {
	case res := <-done:
		return res.payload, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return models.EncodedPayload{}, frameError(ErrSeekTimeout, fmt.Errorf("no frame after %s", f.timeout))
		}
		return models.EncodedPayload{}, frameError(ErrLoadVideo, ctx.Err())
	}
}

func (f *FrameExtractor) capture(data []byte) (payload models.EncodedPayload, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = frameError(ErrLoadVideo, fmt.Errorf("decoder panic: %v", r))
		}
	}()

	video, err := f.decoder.Open(bytes.NewReader(data))
	if err != nil {
		return models.EncodedPayload{}, frameError(ErrLoadVideo, err)
	}
	defer video.Close()

	if w, h := video.Size(); w <= 0 || h <= 0 {
		return models.EncodedPayload{}, frameError(ErrExtractFrame, fmt.Errorf("video has no picture (%dx%d)", w, h))
	}

	at := SeekOffset(video.Duration())
	frame, err := video.FrameAt(at)
	if err != nil {
		return models.EncodedPayload{}, frameError(ErrExtractFrame, fmt.Errorf("seek to %s: %w", at, err))
	}
	if frame == nil {
		return models.EncodedPayload{}, frameError(ErrExtractFrame, fmt.Errorf("no frame at %s", at))
	}
	return EncodeFrame(frame)
}

// SeekOffset is the capture point, a quarter of the way in.
func SeekOffset(duration time.Duration) time.Duration {
	if duration <= 0 {
		return 0
	}
	return duration / 4
}

// EncodeFrame scales src onto a fixed FrameWidth x FrameHeight raster, ignoring
// aspect ratio, and returns it as a base64 JPEG payload.
func EncodeFrame(src image.Image) (models.EncodedPayload, error) {
	bounds := src.Bounds()
	if bounds.Empty() {
		return models.EncodedPayload{}, frameError(ErrExtractFrame, errors.New("empty frame"))
	}

	dst := image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: FrameQuality}); err != nil {
		return models.EncodedPayload{}, frameError(ErrExtractFrame, err)
	}

	return models.EncodedPayload{
		Data:     base64x.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType: FrameMime,
	}, nil
}

func frameError(sentinel, cause error) error {
	err := sentinel
	if cause != nil {
		err = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return &models.Error{Kind: models.KindFrameExtraction, Err: err}
}
