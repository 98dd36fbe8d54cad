package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		preflight  bool
		wantStatus int
		wantOrigin string
	}{
		{"allowed origin", []string{"https://meetups.example.com/"}, http.MethodGet, "https://meetups.example.com", false, http.StatusOK, "https://meetups.example.com"},
		{"foreign origin", []string{"https://meetups.example.com"}, http.MethodGet, "https://evil.example.com", false, http.StatusOK, ""},
		{"wildcard", []string{"*"}, http.MethodGet, "https://any.example.com", false, http.StatusOK, "https://any.example.com"},
		{"preflight allowed", []string{"https://meetups.example.com"}, http.MethodOptions, "https://meetups.example.com", true, http.StatusNoContent, "https://meetups.example.com"},
		{"preflight foreign", []string{"https://meetups.example.com"}, http.MethodOptions, "https://evil.example.com", true, http.StatusNoContent, ""},
		{"no origin", []string{"*"}, http.MethodGet, "", false, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORS(tt.allowed, okHandler)
			req := httptest.NewRequest(tt.method, "http://test/meetups", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			if tt.preflight && tt.wantOrigin != "" {
				assert.Equal(t, corsAllowMethods, rr.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}
