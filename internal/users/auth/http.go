// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// This file contains the HTTP delivery layer of the auth domain. The handler
// acts as a thin mediation layer between the web and [Service]: it owns
// transport concerns only (status codes, cookies, JSON decoding, validation).

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/writory/internal/platform/apperr"
	"github.com/taibuivan/writory/internal/platform/constants"
	"github.com/taibuivan/writory/internal/platform/middleware"
	requestutil "github.com/taibuivan/writory/internal/platform/request"
	"github.com/taibuivan/writory/internal/platform/respond"
	"github.com/taibuivan/writory/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Signup, Login, Logout, Password change).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /signup          : Creates a new account and returns a token pair.
//   - POST /login           : Authenticates and returns a token pair.
//   - POST /refresh         : Rotates the refresh token.
//   - GET  /current-user    : Returns the authenticated identity.
//   - POST /logout          : Revokes the refresh session.
//   - POST /change-password : Replaces the stored password hash.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/current-user", handler.currentUser)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`

	// RefreshToken lets cookie-less clients identify their own session so it
	// survives the revocation of all others.
	RefreshToken string `json:"refresh_token"`
}

// tokenPair is the client-facing access/refresh credential pair.
type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// sessionResponse is the payload returned by signup and login.
type sessionResponse struct {
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
	Tokens  tokenPair  `json:"tokens"`
}

/*
Signup handles the creation of a new user account.

POST /api/v1/auth/signup

Description: Validates input, checks for identity conflicts, persists a new
account, and returns a ready-to-use token pair.

Request:
  - Body: signupRequest (Username, Password, optional Email)

Response:
  - 201: sessionResponse: Created account plus token pair
  - 400: VALIDATION_ERROR: Missing fields or duplicate username
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// Any non-empty username/password is acceptable; only the column limit
	// bounds the username.
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, MaxUsernameLength).
		Required(FieldPassword, input.Password)

	// Email is optional on the API surface; validate only when present.
	if input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Signup(request.Context(), SignupInput{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session)

	respond.Created(writer, sessionResponse{
		Message: "User created successfully",
		User:    session.User.Public(),
		Tokens:  tokenPair{Access: session.AccessToken, Refresh: session.RefreshToken},
	})
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials, generates a JWT access token, and returns
the token pair alongside a secure refresh token cookie.

Request:
  - Body: loginRequest (Username, Password)

Response:
  - 200: sessionResponse: Token pair and account view
  - 400: VALIDATION_ERROR: Missing fields
  - 401: UNAUTHORIZED: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Username:  input.Username,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session)

	respond.OK(writer, sessionResponse{
		Message: "Login successful",
		User:    session.User.Public(),
		Tokens:  tokenPair{Access: session.AccessToken, Refresh: session.RefreshToken},
	})
}

/*
CurrentUser returns the authenticated account's public view.

GET /api/v1/auth/current-user

Response:
  - 200: PublicUser: Account id and username
  - 401: UNAUTHORIZED: Missing or invalid bearer token
*/
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.CurrentUser(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.Public())
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Description: Invalidates the refresh token (if present) and clears the
security cookies from the client. Idempotent.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if token := refreshTokenFrom(request); token != "" {
		_ = handler.authService.Logout(request.Context(), token)
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.NoContent(writer)
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Description: Rotates the session by validating the refresh token (cookie or
body) and issuing a fresh access token and an updated refresh token.

Response:
  - 200: sessionResponse: Rotated token pair
  - 401: UNAUTHORIZED: Missing or invalid refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	token := refreshTokenFrom(request)
	if token == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token"))
		return
	}

	session, err := handler.authService.RefreshSession(
		request.Context(),
		token,
		request.UserAgent(),
		middleware.RealIP(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session)

	respond.OK(writer, sessionResponse{
		Message: "Session refreshed",
		User:    session.User.Public(),
		Tokens:  tokenPair{Access: session.AccessToken, Refresh: session.RefreshToken},
	})
}

/*
ChangePassword updates the authenticated user's password.

POST /api/v1/auth/change-password

Description: Verifies the current password and the confirmation copy before
applying a new password hash. Other active sessions are revoked.

Request:
  - Body: changePasswordRequest (OldPassword, NewPassword, ConfirmPassword)

Response:
  - 200: Success: Password changed
  - 400: VALIDATION_ERROR: Mismatched confirmation or weak password
  - 401: UNAUTHORIZED: Wrong current password or missing bearer token
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		Required(FieldConfirmPassword, input.ConfirmPassword)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The body is already consumed, so only the cookie and the decoded
	// payload can supply the caller's own refresh token.
	currentToken := refreshTokenFromCookie(request)
	if currentToken == "" {
		currentToken = input.RefreshToken
	}

	err = handler.authService.ChangePassword(
		request.Context(),
		claims.UserID,
		input.OldPassword,
		input.NewPassword,
		input.ConfirmPassword,
		currentToken,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}

// # Transport Helpers

// setRefreshCookie injects the HttpOnly refresh token cookie for browser clients.
//
// API clients that cannot store cookies receive the same token in the JSON
// body and submit it back via the refresh request payload.
func setRefreshCookie(writer http.ResponseWriter, session *AuthSession) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// refreshTokenFromCookie extracts the refresh token from the scoped cookie.
func refreshTokenFromCookie(request *http.Request) string {
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// refreshTokenFrom extracts the refresh token from the cookie or, failing
// that, from a JSON body field. It consumes the request body, so handlers
// that decode their own payload must not call it.
func refreshTokenFrom(request *http.Request) string {
	if token := refreshTokenFromCookie(request); token != "" {
		return token
	}

	var body refreshRequest
	if err := requestutil.DecodeJSON(request, &body); err == nil {
		return body.RefreshToken
	}

	return ""
}
