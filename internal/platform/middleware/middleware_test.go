// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/writory/internal/platform/middleware"
)

// stubConfig drives the CORS middleware without a real environment.
type stubConfig struct {
	development  bool
	extraOrigins []string
}

func (s *stubConfig) IsDevelopment() bool      { return s.development }
func (s *stubConfig) AllowedOrigins() []string { return s.extraOrigins }

/*
TestCORS verifies the production allowlist: first-party domain, operator
extras, and rejection of everything else.
*/
func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	cfg := &stubConfig{
		development:  false,
		extraOrigins: []string{"https://preview.example.com"},
	}
	handler := middleware.CORS(cfg)(next)

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"first_party", "https://writory.app", true},
		{"first_party_subdomain", "https://www.writory.app", true},
		{"configured_extra", "https://preview.example.com", true},
		{"unknown_origin", "https://evil.example.net", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest("GET", "/", nil)
			request.Header.Set("Origin", tt.origin)

			handler.ServeHTTP(recorder, request)

			header := recorder.Header().Get("Access-Control-Allow-Origin")
			if tt.allowed {
				assert.Equal(t, tt.origin, header)
			} else {
				assert.Empty(t, header)
			}
		})
	}
}

/*
TestCORS_DevelopmentOpen verifies that development mode reflects any origin.
*/
func TestCORS_DevelopmentOpen(t *testing.T) {
	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	handler := middleware.CORS(&stubConfig{development: true})(next)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Origin", "http://localhost:5173")

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))
}
