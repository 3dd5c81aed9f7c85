package i18n

import (
	"embed"
	"encoding/json"
	"path"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var localeFiles = []string{"active.en.json", "active.es.json"}

// Translator resolves message ids against the embedded locale files.
type Translator struct {
	bundle *goi18n.Bundle
}

func New() (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, f := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, path.Join("locales", f)); err != nil {
			return nil, err
		}
	}

	return &Translator{bundle: bundle}, nil
}

// Localize renders message id for the first supported language in langs
// (Accept-Language values are accepted as-is). fallback is returned when the
// id is unknown in every language.
func (t *Translator) Localize(id, fallback string, data map[string]interface{}, langs ...string) string {
	if t == nil || id == "" {
		return fallback
	}

	localizer := goi18n.NewLocalizer(t.bundle, langs...)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	// A message missing in the requested language comes back in English
	// together with a not-found error.
	if msg == "" && err != nil {
		return fallback
	}
	return msg
}
