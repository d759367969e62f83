package ui

import (
	"html/template"

	"github.com/runixer/rhetoric/internal/i18n"
)

// GetFuncMap returns the template helpers bound to one language.
// With a nil translator "t" echoes the key, which is enough to parse templates.
func GetFuncMap(tr *i18n.Translator, lang string) template.FuncMap {
	return template.FuncMap{
		"t": func(key string, args ...interface{}) string {
			if tr == nil {
				return key
			}
			return tr.Get(lang, key, args...)
		},
	}
}
