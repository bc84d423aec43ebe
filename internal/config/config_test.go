package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tecex/internal"
)

func TestParseArticles(t *testing.T) {
	articles, err := parseArticles("355:1.31809, 80:860168N")
	require.NoError(t, err)
	assert.Equal(t, []internal.ArticleRef{
		{SupplierID: 355, Number: "1.31809"},
		{SupplierID: 80, Number: "860168N"},
	}, articles)
}

func TestParseArticlesInvalid(t *testing.T) {
	for _, raw := range []string{"355", ":1.31809", "355:", "abc:123"} {
		_, err := parseArticles(raw)
		assert.Error(t, err, raw)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 25183, cfg.TecdocProvider)
	assert.Equal(t, []string{"P", "O", "V", "C", "M", "A"}, cfg.VehicleTypes)
	assert.NotEmpty(t, cfg.Articles)
}
