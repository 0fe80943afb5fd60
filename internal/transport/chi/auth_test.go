package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveAuth(keys Keys, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	handler := APIKeyMiddleware(keys)(okHandler())
	req := httptest.NewRequest(method, path, http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAPIKeyMiddleware_NoKeys_PassThrough(t *testing.T) {
	for name, keys := range map[string]Keys{
		"nil":           {},
		"empty strings": {Search: []string{""}, Admin: []string{"", ""}},
	} {
		rr := serveAuth(keys, http.MethodPost, "/v1/rebuild", nil)
		if rr.Code != http.StatusOK {
			t.Errorf("%s: got %d, want %d", name, rr.Code, http.StatusOK)
		}
	}
}

func TestAPIKeyMiddleware_Rejections(t *testing.T) {
	keys := Keys{Search: []string{"search"}, Admin: []string{"admin"}}
	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"missing", nil},
		{"basic scheme", map[string]string{"Authorization": "Basic dXNlcjpwYXNz"}},
		{"unknown bearer", map[string]string{"Authorization": "Bearer wrong"}},
		{"unknown header key", map[string]string{HeaderAPIKey: "wrong"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveAuth(keys, http.MethodGet, "/v1/search", tt.headers)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("got %d, want %d", rr.Code, http.StatusUnauthorized)
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != CodeUnauthorized {
				t.Errorf("error code: got %s, want %s", errResp.Code, CodeUnauthorized)
			}
		})
	}
}

func TestAPIKeyMiddleware_Scopes(t *testing.T) {
	keys := Keys{Search: []string{"search"}, Admin: []string{"admin"}}
	tests := []struct {
		name   string
		method string
		path   string
		key    string
		want   int
	}{
		{"search key reads", http.MethodGet, "/v1/search", "search", http.StatusOK},
		{"search key cannot rebuild", http.MethodPost, "/v1/rebuild", "search", http.StatusForbidden},
		{"admin key reads", http.MethodGet, "/v1/search", "admin", http.StatusOK},
		{"admin key rebuilds", http.MethodPost, "/v1/rebuild", "admin", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveAuth(keys, tt.method, tt.path, map[string]string{"Authorization": "Bearer " + tt.key})
			if rr.Code != tt.want {
				t.Errorf("got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestAPIKeyMiddleware_HeaderKey(t *testing.T) {
	rr := serveAuth(Keys{Admin: []string{"admin"}}, http.MethodPost, "/v1/rebuild",
		map[string]string{HeaderAPIKey: "admin", "Authorization": "Basic ignored"})
	if rr.Code != http.StatusOK {
		t.Errorf("got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAPIKeyMiddleware_ExemptPaths(t *testing.T) {
	for _, path := range []string{"/healthz", "/metrics"} {
		rr := serveAuth(Keys{Admin: []string{"secret"}}, http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Errorf("exempt path %s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}
