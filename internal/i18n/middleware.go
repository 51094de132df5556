package i18n

import (
	"net/http"

	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// Middleware stores a localizer in every request context. The language comes
// from the "lang" query parameter, then Accept-Language, then lang.
func Middleware(lang string) func(http.Handler) http.Handler {
	locs := make(map[string]*i18n.Localizer, len(supported)+1)
	locs[lang] = NewLocalizer(lang)
	for _, tag := range supported {
		locs[tag.String()] = NewLocalizer(tag.String())
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			want := r.URL.Query().Get("lang")
			if want == "" {
				want = r.Header.Get("Accept-Language")
			}
			loc, ok := locs[Match(want, lang)]
			if !ok {
				loc = locs[lang]
			}
			next.ServeHTTP(w, r.WithContext(WithLocalizer(r.Context(), loc)))
		})
	}
}
