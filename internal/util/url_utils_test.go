package util

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	base, err := url.Parse("https://sofifa.com/team/11/real-madrid/")
	require.NoError(t, err)

	tests := []struct {
		href string
		want string
	}{
		{"/player/231747/kylian-mbappe/250001/", "https://sofifa.com/player/231747/kylian-mbappe/250001/"},
		{"/player/231747/kylian-mbappe/?type=all", "https://sofifa.com/player/231747/kylian-mbappe/"},
		{"https://sofifa.com/player/1#top", "https://sofifa.com/player/1"},
		{"  ", ""},
		{"javascript:void(0)", ""},
		{"#section", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeURL(base, tt.href), tt.href)
	}
}

func TestEntityID(t *testing.T) {
	assert.Equal(t, "231747", EntityID("/player/231747/kylian-mbappe/"))
	assert.Equal(t, "20801", EntityID("https://sofifa.com/player/20801/?r=1"))
	assert.Equal(t, "-", EntityID("/team/11/real-madrid/"))
	assert.Equal(t, "-", EntityID(""))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "real-madrid", Slug("https://sofifa.com/team/11/real-madrid"))
	assert.Equal(t, "manchester-city", Slug("https://sofifa.com/team/10/manchester-city/"))
	assert.Equal(t, "manchester-city", Slug("https://sofifa.com/team/10/manchester-city/?r=240050"))
	assert.Equal(t, "team", Slug("https://sofifa.com"))
	assert.Equal(t, "squad", Slug("teams/squad"))
}
