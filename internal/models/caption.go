package models

import (
	"fmt"
	"io"
	"strings"
)

// MediaFile is an uploaded file as declared by the client.
// MimeType is trusted as given, no byte sniffing happens in the pipeline.
type MediaFile struct {
	Name     string
	MimeType string
	Size     int64
	Content  io.Reader
}

// EncodedPayload is one media unit sent to the backend.
// Data is raw base64 without any data-URI prefix.
type EncodedPayload struct {
	Data     string
	MimeType string
}

type ReactionStyle string

const (
	StyleAuto      ReactionStyle = "auto"
	StyleWow       ReactionStyle = "wow"
	StyleKagum     ReactionStyle = "kagum"
	StyleWholesome ReactionStyle = "wholesome"
	StyleLucu      ReactionStyle = "lucu"
	StyleMindblown ReactionStyle = "mindblown"
)

func AllReactionStyles() []ReactionStyle {
	return []ReactionStyle{StyleAuto, StyleWow, StyleKagum, StyleWholesome, StyleLucu, StyleMindblown}
}

// Label is the display name shown by clients.
func (s ReactionStyle) Label() string {
	switch s {
	case StyleAuto:
		return "Auto"
	case StyleWow:
		return "Wow / Kaget"
	case StyleKagum:
		return "Kagum / Satisfying"
	case StyleWholesome:
		return "Wholesome"
	case StyleLucu:
		return "Lucu / Sarkas"
	case StyleMindblown:
		return "Mindblown"
	}
	return string(s)
}

func ParseReactionStyle(s string) (ReactionStyle, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StyleAuto, nil
	}
	for _, style := range AllReactionStyles() {
		if string(style) == s {
			return style, nil
		}
	}
	return "", fmt.Errorf("unknown reaction style %q", s)
}

type OutputLength string

const (
	LengthShort  OutputLength = "short"
	LengthMedium OutputLength = "medium"
	LengthLong   OutputLength = "long"
)

func AllOutputLengths() []OutputLength {
	return []OutputLength{LengthShort, LengthMedium, LengthLong}
}

func (l OutputLength) Label() string {
	switch l {
	case LengthShort:
		return "Pendek"
	case LengthMedium:
		return "Sedang"
	case LengthLong:
		return "Panjang"
	}
	return string(l)
}

// ParseOutputLength accepts the english names and the indonesian labels.
func ParseOutputLength(s string) (OutputLength, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "medium", "sedang":
		return LengthMedium, nil
	case "short", "pendek":
		return LengthShort, nil
	case "long", "panjang":
		return LengthLong, nil
	}
	return "", fmt.Errorf("unknown output length %q", s)
}

type CaptionOptions struct {
	Style        ReactionStyle
	Length       OutputLength
	WithHashtags bool
}

// GenerationRequest is built once per generate action and not modified afterwards.
type GenerationRequest struct {
	Instruction     string
	Payloads        []EncodedPayload
	MaxOutputTokens int
	Temperature     float64
	TopP            float64
	TopK            int
}

type CaptionRequest struct {
	File    MediaFile
	Options CaptionOptions
	APIKey  string
}

// CaptionJSONRequest represents request for the base64 JSON endpoint
type CaptionJSONRequest struct {
	FileBase64   string `json:"file_base64" validate:"required" example:"iVBORw0KGgoAAAANSUhEUgAA..."`
	FileName     string `json:"file_name" example:"beach.jpg"`
	MimeType     string `json:"mime_type" validate:"required" example:"image/jpeg"`
	Style        string `json:"style" example:"wholesome"`
	Length       string `json:"length" example:"medium"`
	WithHashtags bool   `json:"with_hashtags" example:"true"`
}

func (r CaptionJSONRequest) Validate() error {
	if r.FileBase64 == "" {
		return fmt.Errorf("file_base64 is empty")
	}
	if r.MimeType == "" {
		return fmt.Errorf("mime_type is empty")
	}
	return nil
}

// CachedCaption is what the cache keeps per request fingerprint.
type CachedCaption struct {
	Caption   string        `json:"caption"`
	MediaKind string        `json:"media_kind"`
	Style     ReactionStyle `json:"style"`
	Length    OutputLength  `json:"length"`
}

type CaptionResponse struct {
	Caption   string `json:"caption" example:"Gemes banget liat ini 🥹"`
	MediaKind string `json:"media_kind" example:"image"`
	Cached    bool   `json:"cached"`
}

type StreamEvent struct {
	Stage   string `json:"stage,omitempty"`
	Caption string `json:"caption,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type OptionsResponse struct {
	Styles         []Option `json:"styles"`
	Lengths        []Option `json:"lengths"`
	MaxFileSizeMiB int64    `json:"max_file_size_mib"`
	VideoFormats   []string `json:"video_formats" example:"video/mpeg"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
