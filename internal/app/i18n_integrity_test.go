package app_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-jubilee/internal/app"
	"github.com/tartampluch/go-jubilee/internal/config"
)

var translationKeys = []string{
	config.TKeyReportTitle,
	config.TKeyMembers,
	config.TKeyCardAvgBirthday,
	config.TKeyCardTotalAge,
	config.TKeyCardJubileeDate,
	config.TKeyCardAverageAge,
	config.TKeyCardPersonAge,
	config.TKeyValueBreakdown,
	config.TKeyValueJubilee,
	config.TKeyNoJubilee,
	config.TKeyEvtJubilee,
	config.TKeyEvtGroupBirthday,
}

func loadLocale(t *testing.T, lang string) map[string]any {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("locales", "active."+lang+".json"))
	require.NoError(t, err, "Must load active.%s.json", lang)

	var m map[string]any
	require.NoError(t, json.Unmarshal(content, &m), "JSON must be valid")
	return m
}

// TestI18nIntegrity ensures every translation key defined in config exists in
// each locale file and that locales don't drift apart.
func TestI18nIntegrity(t *testing.T) {
	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			messages := loadLocale(t, lang)

			for _, key := range translationKeys {
				_, exists := messages[key]
				assert.Truef(t, exists, "Key '%s' is missing in active.%s.json", key, lang)
			}

			for key := range messages {
				if strings.HasPrefix(key, "_") {
					continue
				}
				assert.Containsf(t, translationKeys, key, "Key '%s' in active.%s.json is unused", key, lang)
			}
		})
	}
}

func TestTranslator_LoadsEmbeddedLocales(t *testing.T) {
	tr := app.NewTranslator("fr")
	assert.ElementsMatch(t, config.SupportedLanguages, tr.SupportedLanguages)
	assert.Equal(t, "Anniversaire du groupe", tr.Localize(config.TKeyEvtGroupBirthday, nil, ""))
}

func TestTranslator_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		lang string
	}{
		{"No locale", "de"},
		{"Empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := app.NewTranslator(tt.lang)
			assert.Equal(t, "Group birthday", tr.Localize(config.TKeyEvtGroupBirthday, nil, ""))
		})
	}

	tr := app.NewTranslator("fr")
	assert.Equal(t, "fallback", tr.Localize("missing_key", nil, "fallback"))

	var none *app.Translator
	assert.Equal(t, "fallback", none.Localize(config.TKeyReportTitle, nil, "fallback"))
}

func TestTranslator_Plurals(t *testing.T) {
	en := app.NewTranslator("en")
	assert.Equal(t, "1 member", en.LocalizeCount(config.TKeyMembers, 1, ""))
	assert.Equal(t, "3 members", en.LocalizeCount(config.TKeyMembers, 3, ""))

	fr := app.NewTranslator("fr")
	assert.Equal(t, "1 membre", fr.LocalizeCount(config.TKeyMembers, 1, ""))
	assert.Equal(t, "3 membres", fr.LocalizeCount(config.TKeyMembers, 3, ""))
}
