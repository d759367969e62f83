// Package i18n holds the user-visible strings of the page and the CLI report.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// catalog maps dotted keys ("error.no_file") to strings of one language.
type catalog map[string]string

// Translator is read-only after construction and safe for concurrent use.
type Translator struct {
	catalogs    map[string]catalog
	defaultLang string
}

// NewTranslator loads the locales compiled into the binary.
func NewTranslator(defaultLang string) (*Translator, error) {
	locales, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded locales: %w", err)
	}
	return NewTranslatorFromFS(locales, defaultLang)
}

// NewTranslatorFromFS loads every *.yaml or *.yml file at the root of fsys,
// named after its language. The default language must be among them.
func NewTranslatorFromFS(fsys fs.FS, defaultLang string) (*Translator, error) {
	names, err := localeFiles(fsys)
	if err != nil {
		return nil, err
	}

	catalogs := make(map[string]catalog, len(names))
	for _, name := range names {
		cat, err := loadCatalog(fsys, name)
		if err != nil {
			return nil, err
		}
		catalogs[strings.TrimSuffix(name, path.Ext(name))] = cat
	}

	if _, ok := catalogs[defaultLang]; !ok {
		return nil, fmt.Errorf("default language %q has no locale file", defaultLang)
	}
	return &Translator{catalogs: catalogs, defaultLang: defaultLang}, nil
}

func localeFiles(fsys fs.FS) ([]string, error) {
	var names []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to list locales: %w", err)
		}
		names = append(names, matches...)
	}
	return names, nil
}

func loadCatalog(fsys fs.FS, name string) (catalog, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read locale %s: %w", name, err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse locale %s: %w", name, err)
	}

	cat := make(catalog)
	cat.add("", tree)
	return cat, nil
}

func (c catalog) add(prefix string, tree map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			c.add(key, sub)
			continue
		}
		c[key] = fmt.Sprint(v)
	}
}

// Get returns the string for key in lang, falling back to the default language
// and then to the key itself. Args are applied with fmt.Sprintf.
func (t *Translator) Get(lang, key string, args ...any) string {
	val, ok := t.lookup(lang, key)
	if !ok {
		val = key
	}
	if len(args) == 0 {
		return val
	}
	return fmt.Sprintf(val, args...)
}

func (t *Translator) lookup(lang, key string) (string, bool) {
	if val, ok := t.catalogs[lang][key]; ok {
		return val, true
	}
	val, ok := t.catalogs[t.defaultLang][key]
	return val, ok
}

// DefaultLanguage returns the language used when none is requested.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// Languages lists the loaded locales in sorted order.
func (t *Translator) Languages() []string {
	langs := lo.Keys(t.catalogs)
	slices.Sort(langs)
	return langs
}

// Keys lists the keys of lang in sorted order, or nil for an unknown language.
func (t *Translator) Keys(lang string) []string {
	cat, ok := t.catalogs[lang]
	if !ok {
		return nil
	}
	keys := lo.Keys(cat)
	slices.Sort(keys)
	return keys
}
