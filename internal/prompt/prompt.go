package prompt

import (
	"strings"

	"github.com/kdduha/reels-caption/internal/models"
)

const (
	formatSuffix     = " untuk reels."
	emojiDirective   = " Maksimal 2 emoji."
	plainDirective   = " Tulis langsung caption saja tanpa format."
	hashtagDirective = " WAJIB akhiri dengan 3-5 hashtag viral."
)

var styleDirectives = map[models.ReactionStyle]string{
	models.StyleAuto:      "Buat caption natural dan relatable",
	models.StyleWow:       "Buat caption dengan ekspresi WOW/KAGET yang viral",
	models.StyleKagum:     "Buat caption dengan reaksi KAGUM/SATISFYING yang bikin puas",
	models.StyleWholesome: "Buat caption hangat, positif, dan wholesome",
	models.StyleLucu:      "Buat caption lucu, sarkastik, dan menghibur",
	models.StyleMindblown: "Buat caption dengan reaksi MINDBLOWN yang ekspresif",
}

type lengthTier struct {
	directive     string
	tokens        int
	hashtagTokens int
}

// Hashtags eat output tokens on top of the caption body, hence the second budget.
var lengthTiers = map[models.OutputLength]lengthTier{
	models.LengthShort:  {directive: "1-2 baris saja", tokens: 40, hashtagTokens: 60},
	models.LengthMedium: {directive: "3-5 baris", tokens: 70, hashtagTokens: 90},
	models.LengthLong:   {directive: "6-8 baris", tokens: 100, hashtagTokens: 120},
}

type Prompt struct {
	Instruction     string
	MaxOutputTokens int
}

// Compose maps caption options to the instruction text and its output token budget.
func Compose(opts models.CaptionOptions) (Prompt, error) {
	style, ok := styleDirectives[opts.Style]
	if !ok {
		return Prompt{}, models.NewError(models.KindInvalidInput, nil, "unknown reaction style %q", opts.Style)
	}
	tier, ok := lengthTiers[opts.Length]
	if !ok {
		return Prompt{}, models.NewError(models.KindInvalidInput, nil, "unknown output length %q", opts.Length)
	}

	var b strings.Builder
	b.WriteString(style)
	b.WriteString(formatSuffix)
	b.WriteString(" Panjang: ")
	b.WriteString(tier.directive)
	b.WriteString(".")
	b.WriteString(emojiDirective)
	b.WriteString(plainDirective)

	tokens := tier.tokens
	if opts.WithHashtags {
		b.WriteString(hashtagDirective)
		tokens = tier.hashtagTokens
	}

	return Prompt{
		Instruction:     strings.TrimSpace(b.String()),
		MaxOutputTokens: tokens,
	}, nil
}

// LengthDirective exposes the length phrase used in the instruction.
func LengthDirective(l models.OutputLength) string {
	return lengthTiers[l].directive
}

func StyleDirective(s models.ReactionStyle) string {
	return styleDirectives[s]
}

func HashtagDirective() string {
	return strings.TrimSpace(hashtagDirective)
}
