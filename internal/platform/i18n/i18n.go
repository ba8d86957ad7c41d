// Package i18n loads the embedded message bundles and hands out per-request
// translators negotiated from the Accept-Language header.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

var (
	bundle      *goi18n.Bundle
	matcher     language.Matcher
	defaultLang = language.English
)

// Init parses every embedded bundle. fallback is used when the client sends
// no acceptable language.
func Init(fallback string) error {
	tag, err := language.Parse(fallback)
	if err != nil {
		return fmt.Errorf("invalid default language %q: %w", fallback, err)
	}

	b := goi18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return fmt.Errorf("read locales: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			return fmt.Errorf("read %s: %w", f.Name(), err)
		}
		if _, err := b.ParseMessageFileBytes(data, f.Name()); err != nil {
			return fmt.Errorf("parse %s: %w", f.Name(), err)
		}
	}

	bundle = b
	matcher = language.NewMatcher(b.LanguageTags())
	defaultLang = tag
	return nil
}

// Translator translates message ids into one negotiated language.
type Translator struct {
	localizer *goi18n.Localizer
	lang      string
}

// For returns a translator for an Accept-Language header value.
func For(acceptLanguage string) *Translator {
	if bundle == nil {
		if err := Init("en"); err != nil {
			panic(err)
		}
	}
	tag, _ := language.MatchStrings(matcher, acceptLanguage, defaultLang.String())
	base, _ := tag.Base()
	return &Translator{
		localizer: goi18n.NewLocalizer(bundle, base.String(), defaultLang.String()),
		lang:      base.String(),
	}
}

// Lang is the base language code, suitable for the html lang attribute.
func (t *Translator) Lang() string {
	return t.lang
}

// T translates messageID. An optional map is passed as template data.
// Unknown ids are returned unchanged.
func (t *Translator) T(messageID string, data ...map[string]any) string {
	cfg := &goi18n.LocalizeConfig{MessageID: messageID}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	msg, err := t.localizer.Localize(cfg)
	if err != nil {
		return messageID
	}
	return msg
}
