package httpmw

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const ctxKeyAPIKey ctxKey = "api_key"

// HeaderAPIKey carries the api key. Browsers that cannot set headers pass
// it as the apiKey query parameter instead.
const HeaderAPIKey = "X-API-Key"

// APIKey stores the presented key in the request context. The key is
// checked by the coordinator so every transport reports UNAUTHORIZED the
// same way.
func APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get(HeaderAPIKey))
		if key == "" {
			key = strings.TrimSpace(r.URL.Query().Get("apiKey"))
		}
		ctx := context.WithValue(r.Context(), ctxKeyAPIKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func APIKeyFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyAPIKey).(string); ok {
		return v
	}
	return ""
}
