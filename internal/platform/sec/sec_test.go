// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/writory/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies that a hashed password validates against
the original plain text and rejects anything else.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The stored value must never equal the plain text.
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}

/*
TestGenerateSecureToken checks length and uniqueness of random tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	// 32 bytes hex-encoded -> 64 characters.
	assert.Len(t, first, 64)
	assert.Len(t, second, 64)
	assert.NotEqual(t, first, second)
}

/*
TestHashToken verifies the digest is deterministic and one-way.
*/
func TestHashToken(t *testing.T) {
	digest := sec.HashToken("some-refresh-token")

	// SHA-256 hex digest is always 64 characters.
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, sec.HashToken("some-refresh-token"))
	assert.NotEqual(t, digest, sec.HashToken("another-token"))
}

/*
TestTokenService_GenerateAndVerify exercises the full RS256 sign/verify cycle
using a throwaway key pair written to a temp directory.
*/
func TestTokenService_GenerateAndVerify(t *testing.T) {
	privPath, pubPath := writeTestKeyPair(t)

	service, err := sec.NewTokenService(privPath, pubPath, "writory.app")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("user-123", "tai", 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "tai", claims.Username)
	assert.Equal(t, "writory.app", claims.Issuer)
	assert.Equal(t, "user-123", claims.Subject)
}

/*
TestTokenService_RejectsExpired verifies that expired tokens fail verification.
*/
func TestTokenService_RejectsExpired(t *testing.T) {
	privPath, pubPath := writeTestKeyPair(t)

	service, err := sec.NewTokenService(privPath, pubPath, "writory.app")
	require.NoError(t, err)

	// Negative TTL: the token is born expired.
	token, err := service.GenerateAccessToken("user-123", "tai", -1*time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_RejectsGarbage verifies that malformed input fails verification.
*/
func TestTokenService_RejectsGarbage(t *testing.T) {
	privPath, pubPath := writeTestKeyPair(t)

	service, err := sec.NewTokenService(privPath, pubPath, "writory.app")
	require.NoError(t, err)

	_, err = service.VerifyToken("not.a.jwt")
	assert.Error(t, err)
}

// writeTestKeyPair generates a throwaway RSA key pair as PEM files in t.TempDir.
func writeTestKeyPair(t *testing.T) (privPath, pubPath string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath = filepath.Join(dir, "jwt_private.pem")
	pubPath = filepath.Join(dir, "jwt_public.pem")

	privBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	require.NoError(t, os.WriteFile(privPath, privBytes, 0o600))

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	pubBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	})
	require.NoError(t, os.WriteFile(pubPath, pubBytes, 0o600))

	return privPath, pubPath
}
