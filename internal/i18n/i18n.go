// Package i18n localises document labels, default instructions and
// user-facing messages.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

type ctxKey struct{}

var (
	bundle    *i18n.Bundle
	supported []language.Tag
	matcher   language.Matcher
)

// ErrUnsupportedLanguage reports a language with no embedded locale.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Init loads every embedded locale and checks that lang is one of them.
// Messages missing from a locale fall back to English.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := path.Join("locales", f.Name())
		data, err := localeFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", name, err)
		}
		mf, err := b.ParseMessageFileBytes(data, f.Name())
		if err != nil {
			return fmt.Errorf("parse locale file %s: %w", name, err)
		}
		slog.Debug("loaded locale file", "file", name, "lang", mf.Tag, "messages", len(mf.Messages))
	}

	tags := b.LanguageTags()
	m := language.NewMatcher(tags)
	if _, _, conf := m.Match(tag); conf == language.No {
		return fmt.Errorf("init language %q: %w (have %v)", lang, ErrUnsupportedLanguage, tags)
	}

	bundle = b
	supported = tags
	matcher = m
	return nil
}

// Match picks the best loaded language for an Accept-Language value and
// returns fallback when nothing matches.
func Match(accept, fallback string) string {
	desired, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(desired) == 0 || matcher == nil {
		return fallback
	}
	_, i, conf := matcher.Match(desired...)
	if conf == language.No {
		return fallback
	}
	return supported[i].String()
}

// NewLocalizer creates a localizer for the given language.
func NewLocalizer(lang string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, lang)
}

// WithLocalizer stores a localizer in the context.
func WithLocalizer(ctx context.Context, loc *i18n.Localizer) context.Context {
	return context.WithValue(ctx, ctxKey{}, loc)
}

func localizerFromCtx(ctx context.Context) *i18n.Localizer {
	if loc, ok := ctx.Value(ctxKey{}).(*i18n.Localizer); ok {
		return loc
	}
	return i18n.NewLocalizer(bundle, "en")
}

func localize(ctx context.Context, cfg *i18n.LocalizeConfig) string {
	s, err := localizerFromCtx(ctx).Localize(cfg)
	if err != nil {
		slog.Warn("missing translation", "id", cfg.MessageID, "error", err)
		return cfg.MessageID
	}
	return s
}

// T translates a message by ID.
func T(ctx context.Context, msgID string) string {
	return localize(ctx, &i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func Td(ctx context.Context, msgID string, data map[string]any) string {
	return localize(ctx, &i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
}

// Tp translates a pluralized message, exposing count as {{.Count}}.
func Tp(ctx context.Context, msgID string, count int) string {
	return localize(ctx, &i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}
