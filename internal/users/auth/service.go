// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/writory/internal/platform/apperr"
	"github.com/taibuivan/writory/internal/platform/sec"
	"github.com/taibuivan/writory/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username string, timeToLive time.Duration) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	tokenProvider     TokenProvider
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(userRepo UserRepository, sessionRepo SessionRepository, tokenProv TokenProvider) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		tokenProvider:     tokenProv,
	}
}

// # Registration Flow

// SignupInput holds the data required to enroll a new account.
type SignupInput struct {
	Username  string
	Email     string // Optional in the JSON API surface.
	Password  string
	UserAgent string
	IPAddress string
}

// AuthSession represents a successfully established user session.
type AuthSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Signup validates, hashes, and persists a brand new user account, then
establishes its first session.

Description: Deep-enrollment of a new account. The caller receives a ready
token pair so the client is logged in immediately after registration.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *AuthSession: Transport-ready session identifiers
  - err: ValidationError (duplicate username) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*AuthSession, error) {

	// Verify username uniqueness. Duplicate usernames are a client input
	// problem, so this is a 400-class validation error.
	_, err := service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.ValidationError("Username already exists")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	// Persist the user to the database. A raced duplicate username surfaces
	// here through the unique constraint.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return service.establishSession(context, user, input.UserAgent, input.IPAddress)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username  string
	Password  string
	UserAgent string
	IPAddress string
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
and initializes a new session with rotated security tokens.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *AuthSession: Transport-ready session identifiers
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*AuthSession, error) {
	user, err := service.userRepository.FindByUsername(context, input.Username)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.establishSession(context, user, input.UserAgent, input.IPAddress)
}

/*
Logout permanently revokes the user's active refresh session.

Description: Ensures that a tracked refresh token can never be used again.
Access JWTs are stateless and remain valid until their (short) expiry; this
residual window is a known property of the token design, not something this
method hides.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {

	// Hash the refresh token
	tokenHash := sec.HashToken(refreshToken)

	// Find the session by token hash
	_, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) session is already gone or invalid, we consider logout successful (idempotent operation).
	if err != nil {
		return nil
	}

	// If (err == nil) Revoke the session
	if err := service.sessionRepository.Revoke(context, tokenHash); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Management

/*
RefreshSession implements the Refresh Token Rotation mechanism.

Description: Verifies the existing refresh token, revokes it to prevent reuse
(replay attack mitigation), and issues a fresh pair of rotated tokens.

Parameters:
  - context: context.Context
  - refreshToken: string
  - userAgent: string
  - ipAddress: string

Returns:
  - *AuthSession: New session credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*AuthSession, error) {

	// Hash the incoming refresh token to look it up
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) the token is either expired, already revoked, or completely invalid.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Rotation: Revoke the old session to prevent replay attacks
	if err := service.sessionRepository.Revoke(context, tokenHash); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	// Fetch the user associated with this session
	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("User not found or suspended")
	}

	return service.establishSession(context, user, userAgent, ipAddress)
}

// # Password Management

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the confirmation copy and the current password, then
rotates all OTHER refresh sessions to ensure high security across devices.
When the caller's own token is unknown, every session is revoked instead —
erring on the side of forcing re-login rather than leaving sessions alive.

Parameters:
  - context: context.Context
  - userID: string
  - oldPassword: string
  - newPassword: string
  - confirmPassword: string
  - currentRefreshToken: string (empty triggers full revocation)

Returns:
  - err: ValidationError (mismatched confirmation), Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, oldPassword, newPassword, confirmPassword, currentRefreshToken string) error {

	// The confirmation copy must match before anything is touched.
	if newPassword != confirmPassword {
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldConfirmPassword,
			Message: "Passwords do not match",
		})
	}

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	// Security Side Effect: Revoke all other sessions to force re-login on
	// other devices. Without a known current token, revoke everything.
	if currentRefreshToken != "" {
		_ = service.sessionRepository.RevokeOthers(context, userID, sec.HashToken(currentRefreshToken))
	} else {
		_ = service.sessionRepository.RevokeAll(context, userID)
	}

	return nil
}

// # Identity Lookup

/*
CurrentUser resolves the account behind an authenticated identity.

Parameters:
  - context: context.Context
  - userID: string (from verified access-token claims)

Returns:
  - *User: Hydrated account entity
  - err: Unauthorized if the account no longer exists
*/
func (service *Service) CurrentUser(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, apperr.Unauthorized("Account no longer exists")
	}
	return user, nil
}

// establishSession issues a token pair and persists the tracking session.
//
// Shared tail of Signup, Login and RefreshSession: every path that hands out
// credentials goes through the exact same issuance logic.
func (service *Service) establishSession(context context.Context, user *User, userAgent, ipAddress string) (*AuthSession, error) {

	// Generate short-lived Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate long-lived Refresh Token
	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Create and persist the tracking session
	expiresAt := time.Now().Add(RefreshTokenTTL)
	session := &Session{
		ID:        uuidv7.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &AuthSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}
