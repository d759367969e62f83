package app

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/runixer/rhetoric/internal/analysis"
	"github.com/runixer/rhetoric/internal/config"
	"github.com/runixer/rhetoric/internal/i18n"
)

// Services holds everything both binaries build from a config.
type Services struct {
	Analyzer   *analysis.Client
	Translator *i18n.Translator
}

// SetupServices wires the backend client and the translator from cfg.
// cfg is expected to be validated already.
func SetupServices(logger *slog.Logger, cfg *config.Config) (*Services, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	lang := cfg.UI.Language
	if lang == "" {
		lang = "en"
		logger.Warn("Language not specified in config, defaulting to 'en'")
	}
	translator, err := i18n.NewTranslator(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}
	cfg.UI.Language = lang

	analyzer := analysis.NewClient(logger, cfg.Backend.AnalyzeURL(), cfg.Backend.GetTimeout())
	logger.Info("Analysis backend configured",
		"endpoint", analyzer.Endpoint(),
		"timeout", cfg.Backend.GetTimeout(),
	)

	return &Services{
		Analyzer:   analyzer,
		Translator: translator,
	}, nil
}

// ParseLogLevel maps log.level to a slog level. Unknown values yield info and ok=false.
func ParseLogLevel(level string) (slog.Level, bool) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, false
	}
	return l, true
}
