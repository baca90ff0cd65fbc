package app

import (
	"embed"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-jubilee/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator localizes report labels and event titles.
type Translator struct {
	Bundle             *i18n.Bundle
	Localizer          *i18n.Localizer
	SupportedLanguages []string
}

// NewTranslator loads every embedded locale and selects lang.
func NewTranslator(lang string) *Translator {
	t := &Translator{}
	t.setupI18n()
	t.SetLanguage(lang)
	return t
}

// setupI18n initializes the translation bundle and detects available languages.
func (t *Translator) setupI18n() {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	t.Bundle = bundle

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		t.SupportedLanguages = append(t.SupportedLanguages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}
}

// SetLanguage switches the localizer. Languages without an embedded locale
// fall back to English.
func (t *Translator) SetLanguage(lang string) {
	if !slices.Contains(t.SupportedLanguages, lang) {
		if lang != "" {
			slog.Warn(config.MsgLangFallback,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyLang, lang,
			)
		}
		lang = config.DefaultLanguage
	}
	t.Localizer = i18n.NewLocalizer(t.Bundle, lang, config.DefaultLanguage)
}

// Localize renders key with data, or fallback when the key is missing.
func (t *Translator) Localize(key string, data map[string]any, fallback string) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data}, fallback)
}

// LocalizeCount renders a pluralized key with {{.Count}}.
func (t *Translator) LocalizeCount(key string, count int, fallback string) string {
	return t.localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: map[string]any{"Count": count},
		PluralCount:  count,
	}, fallback)
}

func (t *Translator) localize(lc *i18n.LocalizeConfig, fallback string) string {
	if t == nil || t.Localizer == nil {
		return fallback
	}
	msg, err := t.Localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return fallback
	}
	return msg
}
