package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var corpus = []string{
	"",
	"   ",
	"**Hook:** Love this! (so cute)",
	"Caption: Pagi yang indah ☀️",
	"caption:\nPagi yang indah",
	"Berikut beberapa: caption buat kamu",
	"Berikut: 1. Satu\n2. Dua",
	"1. 2. nested numbering",
	"- bullet one\n* bullet two\n  - indented dash",
	"((double)) parens",
	"Healing dulu gaes 🌊\nSurga tersembunyi di ujung timur\nyang jarang orang tahu",
	"Cakep banget #explore #travel",
	"Hook\nno colon stays",
	"**bold** only",
	"Pilihan: (pilih satu) Wow!! 😱",
	"Closing: - terakhir",
	"-",
	"#already #tagged",
}

func TestCaption(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		hashtags bool
		want     string
	}{
		{
			name: "bold label and aside",
			raw:  "**Hook:** Love this! (so cute)",
			want: "Love this!",
		},
		{
			name: "label at line start",
			raw:  "Caption: Pagi yang indah",
			want: "Pagi yang indah",
		},
		{
			name: "label is case insensitive",
			raw:  "ISI: mantap",
			want: "mantap",
		},
		{
			name: "longest label wins",
			raw:  "Berikut beberapa: caption",
			want: "caption",
		},
		{
			name: "label without colon is kept",
			raw:  "Hook kanan kiri",
			want: "Hook kanan kiri",
		},
		{
			name: "numbered list",
			raw:  "1. Satu\n2. Dua",
			want: "Satu\nDua",
		},
		{
			name: "bullets and dashes",
			raw:  "- satu\n* dua\n  - tiga",
			want: "satu\ndua\ntiga",
		},
		{
			name: "filler block to end",
			raw:  "Healing dulu 🌊\nSurga tersembunyi di timur\nyang jarang orang tahu",
			want: "Healing dulu 🌊",
		},
		{
			name:     "hashtags appended when missing",
			raw:      "Gemes banget",
			hashtags: true,
			want:     "Gemes banget\n#fyp #viral #trending",
		},
		{
			name:     "existing hashtags untouched",
			raw:      "Gemes banget #kucing",
			hashtags: true,
			want:     "Gemes banget #kucing",
		},
		{
			name:     "empty text gets only hashtags",
			raw:      "(nothing useful)",
			hashtags: true,
			want:     "#fyp #viral #trending",
		},
		{
			name: "no hashtags when not requested",
			raw:  "Gemes banget",
			want: "Gemes banget",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Caption(tt.raw, tt.hashtags))
		})
	}
}

func TestCaptionIdempotent(t *testing.T) {
	for _, raw := range corpus {
		for _, tags := range []bool{false, true} {
			once := Caption(raw, tags)
			require.Equal(t, once, Caption(once, tags), "raw=%q tags=%v", raw, tags)
		}
	}
}

func TestCaptionAlwaysHasHashtagWhenRequested(t *testing.T) {
	for _, raw := range corpus {
		got := Caption(raw, true)
		require.Contains(t, got, "#", "raw=%q", raw)
		if strings.Contains(clean(raw), "#") {
			require.Equal(t, clean(raw), got, "existing hashtags must not be duplicated")
		}
	}
}
