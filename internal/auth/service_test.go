// Copyright (c) 2026 Adminkit. All rights reserved.

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huyld/adminkit/internal/audit"
	"github.com/huyld/adminkit/internal/auth"
	"github.com/huyld/adminkit/internal/platform/apperr"
	"github.com/huyld/adminkit/internal/platform/sec"
)

// # Test Fakes

// fakeUserRepository is an in-memory UserRepository that also captures the
// audit entries the security writes carry.
type fakeUserRepository struct {
	users   map[string]*auth.User
	entries []*audit.Entry
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) RecordLogin(_ context.Context, userID string, loginAt time.Time, entry *audit.Entry) error {
	user, ok := f.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.LastLoginAt = &loginAt
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeUserRepository) UpdatePassword(_ context.Context, userID, passwordHash string, changedAt time.Time, entry *audit.Entry) error {
	user, ok := f.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = passwordHash
	user.PasswordChangedAt = changedAt
	f.entries = append(f.entries, entry)
	return nil
}

// fakeThrottleRepository counts failures in a plain map; the window is ignored.
type fakeThrottleRepository struct {
	counts map[string]int
}

func (f *fakeThrottleRepository) Attempts(_ context.Context, key string) (int, error) {
	return f.counts[key], nil
}

func (f *fakeThrottleRepository) RecordFailure(_ context.Context, key string, _ time.Duration) (int, error) {
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeThrottleRepository) Reset(_ context.Context, key string) error {
	delete(f.counts, key)
	return nil
}

// # Test Fixture

const (
	testUserID   = "0192aa3e-0001-7000-8000-000000000001"
	testEmail    = "admin@example.com"
	testPassword = "correct horse battery"
)

type fixture struct {
	service  *auth.Service
	userRepo *fakeUserRepository
	throttle *fakeThrottleRepository
	hasher   *sec.PasswordHasher
	tokens   *sec.TokenService
}

// newFixture builds a service around one active admin account.
// Cost 4 keeps bcrypt fast in tests.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	hasher := sec.NewPasswordHasher(4)
	passwordHash, err := hasher.Hash(testPassword)
	require.NoError(t, err)

	tokens, err := sec.NewTokenService("test-secret-key", "adminkit", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	userRepo := &fakeUserRepository{users: map[string]*auth.User{
		testUserID: {
			ID:                testUserID,
			Email:             testEmail,
			PasswordHash:      passwordHash,
			FullName:          "Admin User",
			Role:              sec.RoleAdmin,
			IsActive:          true,
			PasswordChangedAt: time.Now().Add(-time.Hour),
		},
	}}
	throttle := &fakeThrottleRepository{counts: map[string]int{}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := auth.NewService(userRepo, throttle, tokens, hasher, 3, 15*time.Minute, logger)

	return &fixture{service: service, userRepo: userRepo, throttle: throttle, hasher: hasher, tokens: tokens}
}

// # Login

/*
TestLogin_Success verifies the happy path: tokens issued, last login stamped,
audit entry captured, throttle counter cleared.
*/
func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	input := auth.LoginInput{Email: testEmail, Password: testPassword, IPAddress: "10.0.0.1"}

	// Pre-existing failures must be wiped by a successful login.
	f.throttle.counts[testEmail+"|10.0.0.1"] = 2

	session, err := f.service.Login(context.Background(), input)
	require.NoError(t, err)

	assert.NotEmpty(t, session.Tokens.AccessToken)
	assert.NotEmpty(t, session.Tokens.RefreshToken)
	assert.Equal(t, testUserID, session.User.ID)
	assert.NotNil(t, session.User.LastLoginAt)

	// The issued access token must verify and carry the role.
	claims, err := f.tokens.Verify(session.Tokens.AccessToken, sec.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, claims.Role)

	require.Len(t, f.userRepo.entries, 1)
	assert.Equal(t, audit.ActionUserLogin, f.userRepo.entries[0].Action)
	assert.Equal(t, "10.0.0.1", f.userRepo.entries[0].IPAddress)

	assert.Zero(t, f.throttle.counts[testEmail+"|10.0.0.1"])
}

/*
TestLogin_IndistinguishableFailures verifies that an unknown email, a wrong
password, and a deactivated account all produce the exact same response, so
accounts cannot be enumerated through the login endpoint.
*/
func TestLogin_IndistinguishableFailures(t *testing.T) {
	f := newFixture(t)
	f.userRepo.users["inactive-id"] = &auth.User{
		ID:           "inactive-id",
		Email:        "inactive@example.com",
		PasswordHash: f.userRepo.users[testUserID].PasswordHash,
		Role:         sec.RoleViewer,
		IsActive:     false,
	}

	cases := []struct {
		name  string
		input auth.LoginInput
	}{
		{"unknown email", auth.LoginInput{Email: "ghost@example.com", Password: testPassword}},
		{"wrong password", auth.LoginInput{Email: testEmail, Password: "wrong"}},
		{"deactivated account", auth.LoginInput{Email: "inactive@example.com", Password: testPassword}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			session, err := f.service.Login(context.Background(), tc.input)
			assert.Nil(t, session)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, 401, appErr.HTTPStatus)
			assert.Equal(t, "Invalid email or password", appErr.Message)
		})
	}

	// No audit entries for failed attempts.
	assert.Empty(t, f.userRepo.entries)
}

/*
TestLogin_Throttled verifies that the attempt counter locks the (email, ip)
pair out after the configured maximum, even with correct credentials.
*/
func TestLogin_Throttled(t *testing.T) {
	f := newFixture(t)
	bad := auth.LoginInput{Email: testEmail, Password: "wrong", IPAddress: "10.0.0.9"}

	for i := 0; i < 3; i++ {
		_, err := f.service.Login(context.Background(), bad)
		require.Error(t, err)
	}

	// Correct credentials, but the counter is exhausted.
	good := auth.LoginInput{Email: testEmail, Password: testPassword, IPAddress: "10.0.0.9"}
	_, err := f.service.Login(context.Background(), good)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 429, appErr.HTTPStatus)

	// Same credentials from another address are unaffected.
	good.IPAddress = "10.0.0.10"
	_, err = f.service.Login(context.Background(), good)
	assert.NoError(t, err)
}

/*
TestLogin_Validation verifies that missing fields fail before any lookup.
*/
func TestLogin_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Login(context.Background(), auth.LoginInput{})

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.HTTPStatus)
	assert.Len(t, appErr.Details, 2)
}

// # Refresh

/*
TestRefresh_RotatesPair verifies a valid refresh token yields a fresh,
verifiable pair.
*/
func TestRefresh_RotatesPair(t *testing.T) {
	f := newFixture(t)
	pair, err := f.tokens.IssuePair(testUserID, sec.RoleAdmin)
	require.NoError(t, err)

	rotated, err := f.service.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	claims, err := f.tokens.Verify(rotated.AccessToken, sec.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
}

/*
TestRefresh_RejectsAccessToken verifies an access token cannot be replayed
against the refresh endpoint.
*/
func TestRefresh_RejectsAccessToken(t *testing.T) {
	f := newFixture(t)
	pair, err := f.tokens.IssuePair(testUserID, sec.RoleAdmin)
	require.NoError(t, err)

	_, err = f.service.Refresh(context.Background(), pair.AccessToken)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 401, appErr.HTTPStatus)
}

/*
TestRefresh_DeactivatedAccount verifies that deactivation cuts off refresh.
*/
func TestRefresh_DeactivatedAccount(t *testing.T) {
	f := newFixture(t)
	pair, err := f.tokens.IssuePair(testUserID, sec.RoleAdmin)
	require.NoError(t, err)

	f.userRepo.users[testUserID].IsActive = false

	_, err = f.service.Refresh(context.Background(), pair.RefreshToken)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 401, appErr.HTTPStatus)
}

/*
TestRefresh_AfterPasswordChange verifies that rotating the password kills
refresh tokens issued before the change.
*/
func TestRefresh_AfterPasswordChange(t *testing.T) {
	f := newFixture(t)
	pair, err := f.tokens.IssuePair(testUserID, sec.RoleAdmin)
	require.NoError(t, err)

	f.userRepo.users[testUserID].PasswordChangedAt = time.Now().Add(2 * time.Second)

	_, err = f.service.Refresh(context.Background(), pair.RefreshToken)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 401, appErr.HTTPStatus)
}

/*
TestRefresh_PicksUpRoleChange verifies the rotated pair carries the CURRENT
role from storage, not the role baked into the old token.
*/
func TestRefresh_PicksUpRoleChange(t *testing.T) {
	f := newFixture(t)
	pair, err := f.tokens.IssuePair(testUserID, sec.RoleAdmin)
	require.NoError(t, err)

	f.userRepo.users[testUserID].Role = sec.RoleViewer

	rotated, err := f.service.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	claims, err := f.tokens.Verify(rotated.AccessToken, sec.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleViewer, claims.Role)
}

// # ChangePassword

/*
TestChangePassword_Success verifies the hash swaps, passwordchangedat bumps,
and the audit entry is written.
*/
func TestChangePassword_Success(t *testing.T) {
	f := newFixture(t)
	before := f.userRepo.users[testUserID].PasswordChangedAt

	err := f.service.ChangePassword(context.Background(), testUserID, auth.ChangePasswordInput{
		CurrentPassword: testPassword,
		NewPassword:     "brand new password",
		IPAddress:       "10.0.0.1",
	})
	require.NoError(t, err)

	user := f.userRepo.users[testUserID]
	assert.True(t, f.hasher.Verify("brand new password", user.PasswordHash))
	assert.True(t, user.PasswordChangedAt.After(before))

	require.Len(t, f.userRepo.entries, 1)
	assert.Equal(t, audit.ActionPasswordChange, f.userRepo.entries[0].Action)
}

/*
TestChangePassword_WrongCurrent verifies an authenticated caller still needs
the current password; a stolen access token is not enough.
*/
func TestChangePassword_WrongCurrent(t *testing.T) {
	f := newFixture(t)

	err := f.service.ChangePassword(context.Background(), testUserID, auth.ChangePasswordInput{
		CurrentPassword: "not my password",
		NewPassword:     "brand new password",
	})

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 401, appErr.HTTPStatus)
	assert.Empty(t, f.userRepo.entries)
}

/*
TestChangePassword_PolicyViolation verifies the length policy on the new value.
*/
func TestChangePassword_PolicyViolation(t *testing.T) {
	f := newFixture(t)

	err := f.service.ChangePassword(context.Background(), testUserID, auth.ChangePasswordInput{
		CurrentPassword: testPassword,
		NewPassword:     "short",
	})

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

// # CheckActive

/*
TestCheckActive covers the per-request identity re-check: missing accounts,
deactivation, and tokens predating the last password change are all rejected.
*/
func TestCheckActive(t *testing.T) {
	f := newFixture(t)
	now := time.Now()

	t.Run("active account passes", func(t *testing.T) {
		assert.NoError(t, f.service.CheckActive(context.Background(), testUserID, now))
	})

	t.Run("unknown account rejected", func(t *testing.T) {
		err := f.service.CheckActive(context.Background(), "missing-id", now)
		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, 401, appErr.HTTPStatus)
	})

	t.Run("token issued in the same second as the change passes", func(t *testing.T) {
		changedAt := now.Truncate(time.Second)
		f.userRepo.users[testUserID].PasswordChangedAt = changedAt.Add(300 * time.Millisecond)
		defer func() { f.userRepo.users[testUserID].PasswordChangedAt = now.Add(-time.Hour) }()

		assert.NoError(t, f.service.CheckActive(context.Background(), testUserID, changedAt))
	})

	t.Run("stale token rejected", func(t *testing.T) {
		f.userRepo.users[testUserID].PasswordChangedAt = now.Add(time.Minute)
		defer func() { f.userRepo.users[testUserID].PasswordChangedAt = now.Add(-time.Hour) }()

		err := f.service.CheckActive(context.Background(), testUserID, now)
		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, 401, appErr.HTTPStatus)
	})

	t.Run("deactivated account rejected", func(t *testing.T) {
		f.userRepo.users[testUserID].IsActive = false
		defer func() { f.userRepo.users[testUserID].IsActive = true }()

		err := f.service.CheckActive(context.Background(), testUserID, now)
		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, 401, appErr.HTTPStatus)
	})
}
