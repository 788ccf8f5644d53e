package api

import "context"

type languageKey struct{}

// WithLanguage returns a context asking transcribers to recognize the given
// language code instead of their configured default.
func WithLanguage(ctx context.Context, language string) context.Context {
	if language == "" {
		return ctx
	}
	return context.WithValue(ctx, languageKey{}, language)
}

// LanguageFrom returns the language requested on ctx, or fallback.
func LanguageFrom(ctx context.Context, fallback string) string {
	if language, ok := ctx.Value(languageKey{}).(string); ok && language != "" {
		return language
	}
	return fallback
}
