package captions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectTrack(t *testing.T) {
	enAuto := Track{BaseURL: "en-asr", LanguageCode: "en", Kind: "asr"}
	frManual := Track{BaseURL: "fr", LanguageCode: "fr"}
	enGBManual := Track{BaseURL: "en-gb", LanguageCode: "en-GB"}
	deAuto := Track{BaseURL: "de-asr", LanguageCode: "de", Kind: "asr"}

	tests := []struct {
		name   string
		tracks []Track
		opts   Options
		want   string
		ok     bool
	}{
		{
			name:   "manual beats auto even for a worse language",
			tracks: []Track{enAuto, frManual},
			opts:   Options{PreferredLangs: []string{"en"}},
			want:   "fr",
			ok:     true,
		},
		{
			name:   "prefix match in preference order",
			tracks: []Track{frManual, enGBManual},
			opts:   Options{PreferredLangs: []string{"en", "fr"}},
			want:   "en-gb",
			ok:     true,
		},
		{
			name:   "case-insensitive prefix",
			tracks: []Track{frManual, enGBManual},
			opts:   Options{PreferredLangs: []string{"EN-gb"}},
			want:   "en-gb",
			ok:     true,
		},
		{
			name:   "no language match takes first of class",
			tracks: []Track{deAuto, enAuto},
			opts:   Options{PreferredLangs: []string{"ja"}},
			want:   "de-asr",
			ok:     true,
		},
		{
			name:   "require human falls back to auto when no manual track",
			tracks: []Track{deAuto, enAuto},
			opts:   Options{RequireHuman: true, PreferredLangs: []string{"en"}},
			want:   "en-asr",
			ok:     true,
		},
		{
			name: "no tracks",
			opts: Options{PreferredLangs: []string{"en"}},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectTrack(tt.tracks, tt.opts)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.BaseURL)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Add the &amp;#39;secret&amp;#39; sauce", "Add the 'secret' sauce"},
		{`<font color="#E5E5E5">two cups</font> flour`, "two cups flour"},
		{"salt &amp; pepper\nto taste", "salt & pepper to taste"},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanText(tt.in))
	}
}
