// Copyright (c) 2026 Adminkit. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huyld/adminkit/internal/platform/sec"
)

const testSecret = "unit-test-signing-secret"

func newTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(testSecret, "adminkit-test", accessTTL, refreshTTL)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_IssueAndVerify checks that a freshly issued pair verifies
immediately and carries the expected identity claims.
*/
func TestTokenService_IssueAndVerify(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 24*time.Hour)

	pair, err := service.IssuePair("user-123", sec.RoleManager)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	accessClaims, err := service.Verify(pair.AccessToken, sec.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-123", accessClaims.UserID)
	assert.Equal(t, sec.RoleManager, accessClaims.Role)
	assert.Equal(t, sec.TokenTypeAccess, accessClaims.TokenType)

	refreshClaims, err := service.Verify(pair.RefreshToken, sec.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, sec.TokenTypeRefresh, refreshClaims.TokenType)
}

/*
TestTokenService_Expiry checks that a token past its exp fails with the
dedicated expiry error rather than a generic invalid error.
*/
func TestTokenService_Expiry(t *testing.T) {
	// A negative TTL is rejected at construction, so issue with a tiny TTL
	// and let the clock pass it.
	service := newTokenService(t, time.Millisecond, time.Millisecond)

	pair, err := service.IssuePair("user-123", sec.RoleAdmin)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = service.Verify(pair.AccessToken, sec.TokenTypeAccess)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_TypeMismatch checks both cross-type directions: a refresh
token is not an access token and vice versa.
*/
func TestTokenService_TypeMismatch(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 24*time.Hour)

	pair, err := service.IssuePair("user-123", sec.RoleViewer)
	require.NoError(t, err)

	_, err = service.Verify(pair.RefreshToken, sec.TokenTypeAccess)
	assert.ErrorIs(t, err, sec.ErrTokenTypeMismatch)

	_, err = service.Verify(pair.AccessToken, sec.TokenTypeRefresh)
	assert.ErrorIs(t, err, sec.ErrTokenTypeMismatch)
}

/*
TestTokenService_Invalid covers structural and signature failures.
*/
func TestTokenService_Invalid(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 24*time.Hour)

	// Garbage input.
	_, err := service.Verify("not-a-jwt", sec.TokenTypeAccess)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)

	// Token signed with a different secret.
	otherService, err := sec.NewTokenService("another-secret", "adminkit-test", time.Minute, time.Hour)
	require.NoError(t, err)
	foreignPair, err := otherService.IssuePair("user-123", sec.RoleAdmin)
	require.NoError(t, err)

	_, err = service.Verify(foreignPair.AccessToken, sec.TokenTypeAccess)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)

	// Tampered payload.
	pair, err := service.IssuePair("user-123", sec.RoleAdmin)
	require.NoError(t, err)
	tampered := pair.AccessToken[:len(pair.AccessToken)-4] + "xxxx"
	_, err = service.Verify(tampered, sec.TokenTypeAccess)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)
}

/*
TestNewTokenService_Config rejects unusable configuration up front.
*/
func TestNewTokenService_Config(t *testing.T) {
	_, err := sec.NewTokenService("", "iss", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = sec.NewTokenService("secret", "iss", 0, time.Hour)
	assert.Error(t, err)

	_, err = sec.NewTokenService("secret", "iss", time.Minute, -time.Hour)
	assert.Error(t, err)
}
