package render

import "strings"

// Translator resolves a message key for a locale. The boolean reports whether
// a translation exists; on false the renderer keeps the authored text.
type Translator func(locale, key string) (string, bool)

// MissingTranslationHandler controls the string used when a translation is
// missing. The default keeps the authored fallback.
type MissingTranslationHandler func(locale, key, fallback string) string

// WithTranslator localizes rendered chrome. Keys follow the convention
// "<form>.<field>.label|placeholder|help", "<form>.submit", and
// "<form>.<field>.error" for validation messages.
func WithTranslator(t Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
	}
}

// WithLocale sets the locale handed to the translator.
func WithLocale(locale string) Option {
	return func(cfg *config) {
		cfg.locale = strings.TrimSpace(locale)
	}
}

// WithMissingTranslationHandler overrides the fallback used when a key has no
// translation.
func WithMissingTranslationHandler(h MissingTranslationHandler) Option {
	return func(cfg *config) {
		if h != nil {
			cfg.onMissing = h
		}
	}
}

// localizer is the per-render translation helper. A nil localizer, or one
// without a translator, passes authored text through untouched.
type localizer struct {
	locale    string
	translate Translator
	onMissing MissingTranslationHandler
}

func newLocalizer(cfg *config) *localizer {
	if cfg.translator == nil {
		return nil
	}
	onMissing := cfg.onMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return &localizer{
		locale:    cfg.locale,
		translate: cfg.translator,
		onMissing: onMissing,
	}
}

func (l *localizer) text(key, fallback string) string {
	if l == nil {
		return fallback
	}
	if value, ok := l.translate(l.locale, key); ok {
		return value
	}
	return l.onMissing(l.locale, key, fallback)
}

func missingTranslationDefault(_, _, fallback string) string {
	return fallback
}
