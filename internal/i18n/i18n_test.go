// internal/i18n/i18n_test.go
package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateWithFallback(t *testing.T) {
	require.NoError(t, Initialize("zh_TW"))

	assert.Equal(t, "zh_TW", DefaultLanguage())
	assert.True(t, Supported("en"))
	assert.False(t, Supported("fr"))

	assert.NotEqual(t, KeyProductNotFound, T("en", KeyProductNotFound))
	assert.Equal(t, T("zh_TW", KeyProductNotFound), T("fr", KeyProductNotFound))
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
	assert.Contains(t, T("en", KeyValidationInvalid, "slug"), "slug")
}

func TestLocalesHaveSameKeys(t *testing.T) {
	load := func(name string) map[string]string {
		data, err := localeFS.ReadFile("locales/" + name)
		require.NoError(t, err)
		var out map[string]string
		require.NoError(t, json.Unmarshal(data, &out))
		return out
	}

	en := load("en.json")
	zh := load("zh_TW.json")
	for key := range en {
		assert.Contains(t, zh, key)
	}
	for key := range zh {
		assert.Contains(t, en, key)
	}
}
