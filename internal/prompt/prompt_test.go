package prompt

import (
	"strings"
	"testing"

	"github.com/kdduha/reels-caption/internal/models"
	"github.com/stretchr/testify/require"
)

func TestComposeAllOptions(t *testing.T) {
	budgets := map[models.OutputLength][2]int{
		models.LengthShort:  {40, 60},
		models.LengthMedium: {70, 90},
		models.LengthLong:   {100, 120},
	}

	for _, style := range models.AllReactionStyles() {
		for _, length := range models.AllOutputLengths() {
			for _, tags := range []bool{false, true} {
				p, err := Compose(models.CaptionOptions{Style: style, Length: length, WithHashtags: tags})
				require.NoError(t, err, "%s/%s/%v", style, length, tags)

				require.NotEmpty(t, p.Instruction)
				require.True(t, strings.HasPrefix(p.Instruction, StyleDirective(style)))
				require.Contains(t, p.Instruction, "Panjang: "+LengthDirective(length)+".")
				require.Contains(t, p.Instruction, "Maksimal 2 emoji.")
				require.Equal(t, tags, strings.Contains(p.Instruction, HashtagDirective()))

				want := budgets[length][0]
				if tags {
					want = budgets[length][1]
					require.True(t, strings.HasSuffix(p.Instruction, HashtagDirective()))
				}
				require.Equal(t, want, p.MaxOutputTokens)
			}
		}
	}
}

func TestEveryEnumValueIsMapped(t *testing.T) {
	require.Len(t, styleDirectives, len(models.AllReactionStyles()))
	require.Len(t, lengthTiers, len(models.AllOutputLengths()))
	for _, s := range models.AllReactionStyles() {
		require.NotEmpty(t, StyleDirective(s), s)
	}
	for _, l := range models.AllOutputLengths() {
		require.NotEmpty(t, LengthDirective(l), l)
		require.Positive(t, lengthTiers[l].tokens)
		require.Greater(t, lengthTiers[l].hashtagTokens, lengthTiers[l].tokens)
	}
}

func TestComposeWholesomeMedium(t *testing.T) {
	p, err := Compose(models.CaptionOptions{Style: models.StyleWholesome, Length: models.LengthMedium})
	require.NoError(t, err)
	require.Equal(t,
		"Buat caption hangat, positif, dan wholesome untuk reels. Panjang: 3-5 baris. Maksimal 2 emoji. Tulis langsung caption saja tanpa format.",
		p.Instruction)
	require.Equal(t, 70, p.MaxOutputTokens)
}

func TestComposeUnknownValues(t *testing.T) {
	_, err := Compose(models.CaptionOptions{Style: "sad", Length: models.LengthShort})
	require.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = Compose(models.CaptionOptions{Style: models.StyleLucu, Length: "epic"})
	require.ErrorIs(t, err, models.ErrInvalidInput)
}
