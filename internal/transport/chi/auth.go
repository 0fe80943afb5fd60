package chi

import (
	"net/http"
	"strings"
)

// HeaderAPIKey carries an API key as an alternative to a Bearer token.
const HeaderAPIKey = "X-Searchsync-API-Key"

var exemptPaths = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

// Keys are the API keys accepted by the HTTP API. Admin keys may call every
// route; search keys are limited to read-only methods.
type Keys struct {
	Search []string
	Admin  []string
}

// APIKeyMiddleware authenticates requests against keys.
// With no keys configured authentication is disabled.
func APIKeyMiddleware(keys Keys) func(http.Handler) http.Handler {
	admin := keySet(keys.Admin)
	search := keySet(keys.Search)

	return func(next http.Handler) http.Handler {
		if len(admin) == 0 && len(search) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			key, problem := requestKey(r)
			if problem != "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, problem)
				return
			}

			if _, ok := admin[key]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := search[key]; ok {
				if r.Method == http.MethodGet || r.Method == http.MethodHead {
					next.ServeHTTP(w, r)
					return
				}
				writeError(w, http.StatusForbidden, CodeForbidden, "search key cannot modify the index")
				return
			}
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
		})
	}
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

// requestKey returns the presented key, or a message describing why none is usable.
func requestKey(r *http.Request) (key, problem string) {
	if k := r.Header.Get(HeaderAPIKey); k != "" {
		return k, ""
	}

	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "missing api key"
	}
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return "", "authorization header must use Bearer scheme"
	}
	return token, ""
}
