// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/writory/internal/platform/ctxutil"
	"github.com/taibuivan/writory/internal/platform/middleware"
	"github.com/taibuivan/writory/internal/platform/sec"
)

// stubVerifier accepts exactly one token string.
type stubVerifier struct {
	validToken string
	claims     *sec.AuthClaims
}

func (s *stubVerifier) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	if tokenStr == s.validToken {
		return s.claims, nil
	}
	return nil, errors.New("invalid token")
}

func newStubVerifier() *stubVerifier {
	return &stubVerifier{
		validToken: "good-token",
		claims:     &sec.AuthClaims{UserID: "user-123", Username: "tai"},
	}
}

/*
TestAuthenticate verifies the three header states: absent (anonymous pass),
valid (claims injected), and invalid (401).
*/
func TestAuthenticate(t *testing.T) {
	verifier := newStubVerifier()

	var capturedClaims *sec.AuthClaims
	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		capturedClaims = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
	handler := middleware.Authenticate(verifier)(next)

	t.Run("anonymous_passthrough", func(t *testing.T) {
		capturedClaims = nil
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("GET", "/", nil)

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Nil(t, capturedClaims)
	})

	t.Run("valid_bearer", func(t *testing.T) {
		capturedClaims = nil
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("GET", "/", nil)
		request.Header.Set("Authorization", "Bearer good-token")

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.NotNil(t, capturedClaims)
		assert.Equal(t, "user-123", capturedClaims.UserID)
	})

	t.Run("invalid_token", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("GET", "/", nil)
		request.Header.Set("Authorization", "Bearer bad-token")

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("malformed_header", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("GET", "/", nil)
		request.Header.Set("Authorization", "NotBearer")

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

/*
TestRequireAuth verifies the guard blocks anonymous requests and admits
authenticated ones.
*/
func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	guarded := middleware.RequireAuth(next)

	t.Run("anonymous_blocked", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("GET", "/", nil)

		guarded.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("authenticated_admitted", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("GET", "/", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "user-123"})

		guarded.ServeHTTP(recorder, request.WithContext(ctx))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}
