package media

import (
	"fmt"
	"image"
	"io"
	"time"

	"github.com/gen2brain/mpeg"
)

const (
	DecoderMPEG     = "mpeg"
	DecoderDisabled = "disabled"
)

// NewVideoDecoder picks the decoding strategy once at startup.
// DecoderDisabled yields a nil decoder.
func NewVideoDecoder(name string) (VideoDecoder, error) {
	switch name {
	case "", DecoderMPEG:
		return mpegDecoder{}, nil
	case DecoderDisabled:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown video decoder %q", name)
}

// mpegDecoder decodes MPEG-1 program streams in process.
type mpegDecoder struct{}

func (mpegDecoder) Name() string {
	return DecoderMPEG
}

// Formats is MPEG-1 program streams only. MP4, MOV and WebM are not decodable.
func (mpegDecoder) Formats() []string {
	return []string{"video/mpeg"}
}

func (mpegDecoder) Open(r io.Reader) (Video, error) {
	m, err := mpeg.New(r)
	if err != nil {
		return nil, err
	}
	return &mpegVideo{mpg: m}, nil
}

type mpegVideo struct {
	mpg *mpeg.MPEG
}

func (v *mpegVideo) Duration() time.Duration {
	return v.mpg.Duration()
}

func (v *mpegVideo) Size() (int, int) {
	return v.mpg.Width(), v.mpg.Height()
}

func (v *mpegVideo) FrameAt(t time.Duration) (image.Image, error) {
	frame := v.mpg.SeekFrame(t, true)
	if frame == nil {
		return nil, fmt.Errorf("seek to %s did not complete", t)
	}
	return frame.YCbCr(), nil
}

func (v *mpegVideo) Close() error {
	v.mpg = nil
	return nil
}
