package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/runixer/rhetoric/internal/config"
	"github.com/runixer/rhetoric/internal/i18n"
)

// TestLogger returns a discarding logger for tests.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestConfig returns the embedded defaults pointed at backendURL.
func TestConfig(t *testing.T, backendURL string) *config.Config {
	t.Helper()
	cfg, err := config.LoadDefault()
	require.NoError(t, err)
	if backendURL != "" {
		cfg.Backend.BaseURL = backendURL
	}
	return cfg
}

// TestTranslator returns the embedded translator with English as default.
func TestTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator("en")
	require.NoError(t, err)
	return tr
}
