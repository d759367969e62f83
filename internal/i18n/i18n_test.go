package i18n

import (
	"embed"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed locales/*.yaml
var testLocalesEmbed embed.FS

// testLocales is the sub-filesystem rooted at locales/
var testLocales, _ = fs.Sub(testLocalesEmbed, "locales")

func TestLocaleKeysSynchronized(t *testing.T) {
	tr, err := NewTranslatorFromFS(testLocales, "en")
	require.NoError(t, err)

	require.Equal(t, []string{"en", "ru"}, tr.Languages())
	assert.NotEmpty(t, tr.Keys("en"))
	assert.Equal(t, tr.Keys("en"), tr.Keys("ru"), "locale files should carry the same keys")
	assert.Nil(t, tr.Keys("xx"))
}

func TestNewTranslatorFromFS_Errors(t *testing.T) {
	t.Run("unparsable locale", func(t *testing.T) {
		fsys := fstest.MapFS{"en.yaml": {Data: []byte("a: [unterminated")}}
		_, err := NewTranslatorFromFS(fsys, "en")
		assert.ErrorContains(t, err, "failed to parse locale en.yaml")
	})

	t.Run("yml extension and non-string values", func(t *testing.T) {
		fsys := fstest.MapFS{
			"en.yml":    {Data: []byte("limits:\n  max: 512\n")},
			"notes.txt": {Data: []byte("ignored")},
		}
		tr, err := NewTranslatorFromFS(fsys, "en")
		require.NoError(t, err)
		assert.Equal(t, "512", tr.Get("en", "limits.max"))
		assert.Equal(t, []string{"en"}, tr.Languages())
	})
}

func TestGet(t *testing.T) {
	tr, err := NewTranslatorFromFS(testLocales, "en")
	require.NoError(t, err)

	tests := []struct {
		name     string
		lang     string
		key      string
		args     []any
		expected string
	}{
		{
			name:     "validation message in en",
			lang:     "en",
			key:      "error.no_file",
			expected: "Please select a video file first.",
		},
		{
			name:     "transport message in en",
			lang:     "en",
			key:      "error.analyze_failed",
			expected: "Failed to analyze video. Ensure backend is running.",
		},
		{
			name:     "existing key in ru",
			lang:     "ru",
			key:      "error.no_file",
			expected: "Сначала выберите видеофайл.",
		},
		{
			name:     "fallback to default lang",
			lang:     "fr",
			key:      "gesture.none",
			expected: "No significant bad gestures detected!",
		},
		{
			name:     "missing key returns key",
			lang:     "en",
			key:      "nonexistent.key",
			expected: "nonexistent.key",
		},
		{
			name:     "empty lang uses default",
			lang:     "",
			key:      "upload.analyze_button",
			expected: "Analyze Speech",
		},
		{
			name:     "format args",
			lang:     "en",
			key:      "upload.too_large",
			args:     []any{512},
			expected: "The selected video is too large (limit 512 MB).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tr.Get(tt.lang, tt.key, tt.args...)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGet_FallsBackWhenKeyMissingInLanguage(t *testing.T) {
	fsys := fstest.MapFS{
		"en.yaml": {Data: []byte("a:\n  b: \"english\"\n  c: \"only english\"\n")},
		"de.yaml": {Data: []byte("a:\n  b: \"deutsch\"\n")},
	}
	tr, err := NewTranslatorFromFS(fsys, "en")
	require.NoError(t, err)

	assert.Equal(t, "deutsch", tr.Get("de", "a.b"))
	assert.Equal(t, "only english", tr.Get("de", "a.c"))
	assert.Equal(t, []string{"de", "en"}, tr.Languages())
}

func TestNewTranslator_UnknownDefaultLanguage(t *testing.T) {
	_, err := NewTranslatorFromFS(testLocales, "xx")
	assert.Error(t, err)
}

func TestNewTranslator_Embedded(t *testing.T) {
	tr, err := NewTranslator("en")
	require.NoError(t, err)
	assert.Equal(t, "en", tr.DefaultLanguage())
	assert.Equal(t, "Rhetoric", tr.Get("", "page.title"))
}
