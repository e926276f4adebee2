// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/writory/internal/platform/apperr"
	"github.com/taibuivan/writory/internal/platform/sec"
	"github.com/taibuivan/writory/internal/users/auth"
)

// # In-Memory Fakes

var errFakeNotFound = errors.New("not found")

type fakeUserRepository struct {
	byID       map[string]*auth.User
	byUsername map[string]*auth.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byID:       make(map[string]*auth.User),
		byUsername: make(map[string]*auth.User),
	}
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	user, ok := f.byUsername[username]
	if !ok {
		return nil, errFakeNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	if _, exists := f.byUsername[user.Username]; exists {
		return apperr.ValidationError("Username already exists")
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.byID[user.ID] = user
	f.byUsername[user.Username] = user
	return nil
}

func (f *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := f.byID[userID]
	if !ok {
		return errFakeNotFound
	}
	user.PasswordHash = newHash
	user.UpdatedAt = time.Now()
	return nil
}

type fakeSessionRepository struct {
	byTokenHash map[string]*auth.Session
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{byTokenHash: make(map[string]*auth.Session)}
}

func (f *fakeSessionRepository) Create(_ context.Context, session *auth.Session) error {
	session.CreatedAt = time.Now()
	f.byTokenHash[session.TokenHash] = session
	return nil
}

func (f *fakeSessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	session, ok := f.byTokenHash[tokenHash]
	if !ok {
		return nil, errFakeNotFound
	}
	return session, nil
}

func (f *fakeSessionRepository) Revoke(_ context.Context, tokenHash string) error {
	delete(f.byTokenHash, tokenHash)
	return nil
}

func (f *fakeSessionRepository) RevokeAll(_ context.Context, userID string) error {
	for hash, session := range f.byTokenHash {
		if session.UserID == userID {
			delete(f.byTokenHash, hash)
		}
	}
	return nil
}

func (f *fakeSessionRepository) RevokeOthers(_ context.Context, userID, keepTokenHash string) error {
	for hash, session := range f.byTokenHash {
		if session.UserID == userID && hash != keepTokenHash {
			delete(f.byTokenHash, hash)
		}
	}
	return nil
}

// fakeTokenProvider issues predictable tokens without any cryptography.
type fakeTokenProvider struct {
	issued int
}

func (f *fakeTokenProvider) GenerateAccessToken(userID, username string, _ time.Duration) (string, error) {
	f.issued++
	return fmt.Sprintf("access-%s-%d", userID, f.issued), nil
}

func newTestService() (*auth.Service, *fakeUserRepository, *fakeSessionRepository) {
	users := newFakeUserRepository()
	sessions := newFakeSessionRepository()
	service := auth.NewService(users, sessions, &fakeTokenProvider{})
	return service, users, sessions
}

// # Registration

/*
TestSignup_ThenLogin verifies the full enrollment round trip: a freshly created
account can immediately authenticate with its own credentials.
*/
func TestSignup_ThenLogin(t *testing.T) {
	service, users, sessions := newTestService()
	ctx := context.Background()

	created, err := service.Signup(ctx, auth.SignupInput{
		Username: "tai",
		Email:    "tai@writory.app",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	// Token pair is ready to use straight away.
	assert.NotEmpty(t, created.AccessToken)
	assert.NotEmpty(t, created.RefreshToken)
	assert.Equal(t, "tai", created.User.Username)

	// The stored hash must not be the plain-text password.
	stored := users.byUsername["tai"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "hunter2hunter2", stored.PasswordHash)

	// A tracking session was persisted for the refresh token.
	assert.Len(t, sessions.byTokenHash, 1)

	// Now authenticate with the same credentials.
	loggedIn, err := service.Login(ctx, auth.LoginInput{
		Username: "tai",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, loggedIn.User.ID)
}

/*
TestSignup_DuplicateUsername verifies that re-using a username is rejected as a
validation error (400), not a conflict.
*/
func TestSignup_DuplicateUsername(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	_, err := service.Signup(ctx, auth.SignupInput{Username: "tai", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = service.Signup(ctx, auth.SignupInput{Username: "tai", Password: "anotherpass99"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, 400, ae.HTTPStatus)
}

// # Authentication

/*
TestLogin_WrongPassword verifies a generic 401 for bad credentials, with no
hint whether the username exists.
*/
func TestLogin_WrongPassword(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	_, err := service.Signup(ctx, auth.SignupInput{Username: "tai", Password: "hunter2hunter2"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong_password", "tai", "not-the-password"},
		{"unknown_user", "nobody", "hunter2hunter2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(ctx, auth.LoginInput{Username: tt.username, Password: tt.password})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "UNAUTHORIZED", ae.Code)
			assert.Equal(t, "Invalid login credentials", ae.Message)
		})
	}
}

/*
TestLogout_IsIdempotent verifies that logging out twice (or with an unknown
token) never errors, and that the session is actually gone.
*/
func TestLogout_IsIdempotent(t *testing.T) {
	service, _, sessions := newTestService()
	ctx := context.Background()

	created, err := service.Signup(ctx, auth.SignupInput{Username: "tai", Password: "hunter2hunter2"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, created.RefreshToken))
	assert.Empty(t, sessions.byTokenHash)

	// Second logout with the same (now invalid) token still succeeds.
	require.NoError(t, service.Logout(ctx, created.RefreshToken))
	require.NoError(t, service.Logout(ctx, "completely-unknown-token"))
}

// # Session Rotation

/*
TestRefreshSession_Rotation verifies that refreshing revokes the old token and
issues a new pair; the old refresh token cannot be replayed.
*/
func TestRefreshSession_Rotation(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	created, err := service.Signup(ctx, auth.SignupInput{Username: "tai", Password: "hunter2hunter2"})
	require.NoError(t, err)

	rotated, err := service.RefreshSession(ctx, created.RefreshToken, "agent", "127.0.0.1")
	require.NoError(t, err)

	assert.NotEqual(t, created.RefreshToken, rotated.RefreshToken)
	assert.NotEqual(t, created.AccessToken, rotated.AccessToken)

	// Replaying the original refresh token must fail.
	_, err = service.RefreshSession(ctx, created.RefreshToken, "agent", "127.0.0.1")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

// # Password Management

/*
TestChangePassword verifies the happy path plus the two rejection branches
(confirmation mismatch, wrong current password). On rejection the stored hash
must remain untouched.
*/
func TestChangePassword(t *testing.T) {
	service, users, _ := newTestService()
	ctx := context.Background()

	created, err := service.Signup(ctx, auth.SignupInput{Username: "tai", Password: "hunter2hunter2"})
	require.NoError(t, err)
	userID := created.User.ID
	originalHash := users.byID[userID].PasswordHash

	t.Run("confirmation_mismatch", func(t *testing.T) {
		err := service.ChangePassword(ctx, userID, "hunter2hunter2", "newpassword99", "different99", "")
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		require.Len(t, ae.Details, 1)
		assert.Equal(t, auth.FieldConfirmPassword, ae.Details[0].Field)

		// Password untouched.
		assert.Equal(t, originalHash, users.byID[userID].PasswordHash)
	})

	t.Run("wrong_current_password", func(t *testing.T) {
		err := service.ChangePassword(ctx, userID, "not-the-password", "newpassword99", "newpassword99", "")
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)

		assert.Equal(t, originalHash, users.byID[userID].PasswordHash)
	})

	t.Run("success", func(t *testing.T) {
		err := service.ChangePassword(ctx, userID, "hunter2hunter2", "newpassword99", "newpassword99", "")
		require.NoError(t, err)

		assert.NotEqual(t, originalHash, users.byID[userID].PasswordHash)

		// Old password no longer works, new one does.
		_, err = service.Login(ctx, auth.LoginInput{Username: "tai", Password: "hunter2hunter2"})
		require.Error(t, err)

		_, err = service.Login(ctx, auth.LoginInput{Username: "tai", Password: "newpassword99"})
		require.NoError(t, err)
	})
}

/*
TestChangePassword_RevokesOtherSessions verifies that a password change kills
every session except the caller's own.
*/
func TestChangePassword_RevokesOtherSessions(t *testing.T) {
	service, _, sessions := newTestService()
	ctx := context.Background()

	created, err := service.Signup(ctx, auth.SignupInput{Username: "tai", Password: "hunter2hunter2"})
	require.NoError(t, err)

	// A second device logs in.
	other, err := service.Login(ctx, auth.LoginInput{Username: "tai", Password: "hunter2hunter2"})
	require.NoError(t, err)
	require.Len(t, sessions.byTokenHash, 2)

	err = service.ChangePassword(ctx, created.User.ID, "hunter2hunter2", "newpassword99", "newpassword99", created.RefreshToken)
	require.NoError(t, err)

	// Only the caller's session survives.
	require.Len(t, sessions.byTokenHash, 1)
	_, found := sessions.byTokenHash[sec.HashToken(created.RefreshToken)]
	assert.True(t, found)
	_, gone := sessions.byTokenHash[sec.HashToken(other.RefreshToken)]
	assert.False(t, gone)
}

/*
TestChangePassword_UnknownTokenRevokesAll verifies the fallback: without the
caller's own refresh token, every session is revoked.
*/
func TestChangePassword_UnknownTokenRevokesAll(t *testing.T) {
	service, _, sessions := newTestService()
	ctx := context.Background()

	created, err := service.Signup(ctx, auth.SignupInput{Username: "tai", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = service.Login(ctx, auth.LoginInput{Username: "tai", Password: "hunter2hunter2"})
	require.NoError(t, err)
	require.Len(t, sessions.byTokenHash, 2)

	err = service.ChangePassword(ctx, created.User.ID, "hunter2hunter2", "newpassword99", "newpassword99", "")
	require.NoError(t, err)

	assert.Empty(t, sessions.byTokenHash)
}

// # Identity Lookup

/*
TestCurrentUser verifies resolution of a live account and a 401 for a vanished one.
*/
func TestCurrentUser(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	created, err := service.Signup(ctx, auth.SignupInput{Username: "tai", Password: "hunter2hunter2"})
	require.NoError(t, err)

	user, err := service.CurrentUser(ctx, created.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "tai", user.Username)

	_, err = service.CurrentUser(ctx, "ghost-id")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}
