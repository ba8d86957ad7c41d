package middleware

import (
	"car_rental/internal/platform/i18n"
	"context"
	"net/http"
)

const TranslatorCtxKey contextKey = "translator"

// Language picks the response language from Accept-Language.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tr := i18n.For(r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Language", tr.Lang())
		ctx := context.WithValue(r.Context(), TranslatorCtxKey, tr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTranslator falls back to a default-language translator outside the
// Language middleware.
func GetTranslator(ctx context.Context) *i18n.Translator {
	if tr, ok := ctx.Value(TranslatorCtxKey).(*i18n.Translator); ok {
		return tr
	}
	return i18n.For("")
}
