// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/writory/internal/platform/ctxutil"
	"github.com/taibuivan/writory/internal/platform/sec"
	"github.com/taibuivan/writory/internal/users/auth"
)

// serveJSON runs a request through the handler's router, optionally with an
// authenticated identity already in context.
func serveJSON(handler *auth.Handler, method, target, body string, claims *sec.AuthClaims) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	if claims != nil {
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, request)
	return recorder
}

/*
TestSignupHTTP_MinimalCredentials verifies that any non-empty username and
password are accepted, short ones included.
*/
func TestSignupHTTP_MinimalCredentials(t *testing.T) {
	service, _, _ := newTestService()
	handler := auth.NewHandler(service)

	recorder := serveJSON(handler, "POST", "/signup", `{"username":"alice","password":"pw1"}`, nil)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"alice"`)
	assert.Contains(t, recorder.Body.String(), `"access"`)
	assert.Contains(t, recorder.Body.String(), `"refresh"`)
}

/*
TestSignupHTTP_EmptyCredentials verifies that blank fields still fail validation.
*/
func TestSignupHTTP_EmptyCredentials(t *testing.T) {
	service, _, _ := newTestService()
	handler := auth.NewHandler(service)

	recorder := serveJSON(handler, "POST", "/signup", `{"username":"","password":""}`, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
}

/*
TestChangePasswordHTTP_BodyToken verifies that a cookie-less client can pass
its refresh token in the request body and keep its own session alive while all
other sessions are revoked.
*/
func TestChangePasswordHTTP_BodyToken(t *testing.T) {
	service, _, sessions := newTestService()
	handler := auth.NewHandler(service)
	ctx := context.Background()

	mine, err := service.Signup(ctx, auth.SignupInput{Username: "tai", Password: "pw1"})
	require.NoError(t, err)

	other, err := service.Login(ctx, auth.LoginInput{Username: "tai", Password: "pw1"})
	require.NoError(t, err)
	require.Len(t, sessions.byTokenHash, 2)

	body := fmt.Sprintf(
		`{"old_password":"pw1","new_password":"pw2","confirm_password":"pw2","refresh_token":"%s"}`,
		mine.RefreshToken,
	)
	claims := &sec.AuthClaims{UserID: mine.User.ID, Username: "tai"}

	recorder := serveJSON(handler, "POST", "/change-password", body, claims)

	assert.Equal(t, http.StatusOK, recorder.Code)

	// The caller's session survives; the other device is logged out.
	require.Len(t, sessions.byTokenHash, 1)
	_, kept := sessions.byTokenHash[sec.HashToken(mine.RefreshToken)]
	assert.True(t, kept)
	_, stale := sessions.byTokenHash[sec.HashToken(other.RefreshToken)]
	assert.False(t, stale)
}
