// Copyright (c) 2026 Adminkit. All rights reserved.

/*
Package auth implements authentication and account-level security for the panel.

It covers credential verification, stateless JWT session issuance and refresh,
failed-login throttling, and the per-request identity re-check the middleware
runs on every authenticated call.

Architecture:

  - Service: Orchestrates the security flows (Login, Refresh, ChangePassword).
  - UserRepository: Postgres-backed identity reads and audited security writes.
  - ThrottleRepository: Redis-backed failed-login counters.
  - TokenProvider: Signs and verifies the access/refresh token pair.

Administrative account CRUD lives in the user domain; this package owns only
what a caller can do to its OWN identity.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/huyld/adminkit/internal/audit"
	"github.com/huyld/adminkit/internal/platform/apperr"
	"github.com/huyld/adminkit/internal/platform/sec"
	"github.com/huyld/adminkit/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and verifying token pairs.
type TokenProvider interface {
	// IssuePair signs a fresh access/refresh pair for the given identity.
	IssuePair(userID string, role sec.Role) (*sec.TokenPair, error)

	// Verify checks a token string and enforces the expected token type.
	Verify(tokenString string, expectedType sec.TokenType) (*sec.AuthClaims, error)
}

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to credential checking,
// throttling, or token handling must be reviewed by the security team.
type Service struct {
	userRepository     UserRepository
	throttleRepository ThrottleRepository
	tokenProvider      TokenProvider
	passwordHasher     *sec.PasswordHasher

	maxLoginAttempts   int
	loginAttemptWindow time.Duration

	logger *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
//
// throttleRepo may be nil, in which case failed-login throttling is disabled
// (used in tests and single-user deployments without Redis).
func NewService(
	userRepo UserRepository,
	throttleRepo ThrottleRepository,
	tokenProvider TokenProvider,
	passwordHasher *sec.PasswordHasher,
	maxLoginAttempts int,
	loginAttemptWindow time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:     userRepo,
		throttleRepository: throttleRepo,
		tokenProvider:      tokenProvider,
		passwordHasher:     passwordHasher,
		maxLoginAttempts:   maxLoginAttempts,
		loginAttemptWindow: loginAttemptWindow,
		logger:             logger,
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
}

// LoginSession represents a successfully established session.
type LoginSession struct {
	Tokens *sec.TokenPair
	User   *User
}

/*
Login validates credentials and issues a fresh token pair.

Description: Verifies identity with constant-time password comparison, updates
the last-login timestamp atomically with its audit entry, and resets the
failed-login counter.

Every failure path that depends on the credentials returns the SAME generic
Unauthorized message, so a caller cannot distinguish an unknown email from a
wrong password or a deactivated account.

Parameters:
  - ctx: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready token pair plus the account entity
  - err: Validation, Unauthorized, RateLimited, or internal failures
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginSession, error) {
	validator := &validate.Validator{}
	if err := validator.
		Required("email", input.Email).
		Required("password", input.Password).
		Err(); err != nil {
		return nil, err
	}

	// Throttle key is scoped per credential AND per source address, so one
	// attacker cannot lock a victim out from elsewhere.
	throttleKey := strings.ToLower(strings.TrimSpace(input.Email)) + "|" + input.IPAddress

	if err := service.checkThrottle(ctx, throttleKey); err != nil {
		return nil, err
	}

	// Unknown email: generic message to prevent account enumeration.
	user, err := service.userRepository.FindByEmail(ctx, input.Email)
	if err != nil {
		service.recordFailure(ctx, throttleKey)
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// A deactivated account answers exactly like a wrong password.
	if !user.IsActive {
		service.recordFailure(ctx, throttleKey)
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// bcrypt comparison is constant-time, preventing timing attacks.
	if !service.passwordHasher.Verify(input.Password, user.PasswordHash) {
		service.recordFailure(ctx, throttleKey)
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	tokens, err := service.tokenProvider.IssuePair(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	// Stamp the login and write its audit entry in one transaction.
	loginAt := time.Now()
	entry := audit.NewEntry(
		audit.ActionUserLogin, user.ID, audit.ResourceUser, user.ID,
		input.IPAddress, map[string]any{"email": user.Email},
	)
	if err := service.userRepository.RecordLogin(ctx, user.ID, loginAt, entry); err != nil {
		return nil, fmt.Errorf("auth_service_record_login_failed: %w", err)
	}
	user.LastLoginAt = &loginAt

	service.resetThrottle(ctx, throttleKey)

	return &LoginSession{Tokens: tokens, User: user}, nil
}

/*
Refresh exchanges a valid refresh token for a brand new token pair.

Description: Verifies the refresh token, re-checks the account against storage
(active flag, password rotation), and issues fresh tokens with the CURRENT
role from the database, so role changes propagate at the next refresh.

Returns:
  - *sec.TokenPair: The rotated pair
  - err: Unauthorized if the token or the account is no longer valid
*/
func (service *Service) Refresh(ctx context.Context, refreshToken string) (*sec.TokenPair, error) {
	claims, err := service.tokenProvider.Verify(refreshToken, sec.TokenTypeRefresh)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// A signed token alone is not enough: the account must still exist, be
	// active, and must not have rotated its password since issuance.
	if err := service.CheckActive(ctx, claims.UserID, issuedAt(claims)); err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	user, err := service.userRepository.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	tokens, err := service.tokenProvider.IssuePair(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_issue_failed: %w", err)
	}

	return tokens, nil
}

// # Account Self-Service

// ChangePasswordInput defines the payload for a password rotation.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	IPAddress       string `json:"-"`
}

/*
ChangePassword rotates the caller's own password.

Description: Re-verifies the current password even though the caller is
already authenticated (a stolen access token must not be enough to take over
the account), then swaps the hash and bumps passwordchangedat — which
invalidates every previously issued token.

Returns:
  - err: Validation, Unauthorized (wrong current password), or storage failures
*/
func (service *Service) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	validator := &validate.Validator{}
	if err := validator.
		Required("current_password", input.CurrentPassword).
		Required("new_password", input.NewPassword).
		MinLen("new_password", input.NewPassword, PasswordMinLength).
		MaxLen("new_password", input.NewPassword, PasswordMaxLength).
		Err(); err != nil {
		return err
	}

	user, err := service.userRepository.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	// Possession of a valid access token is NOT proof of knowing the password.
	if !service.passwordHasher.Verify(input.CurrentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	newHash, err := service.passwordHasher.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	changedAt := time.Now()
	entry := audit.NewEntry(
		audit.ActionPasswordChange, user.ID, audit.ResourceUser, user.ID,
		input.IPAddress, nil,
	)
	if err := service.userRepository.UpdatePassword(ctx, user.ID, newHash, changedAt, entry); err != nil {
		return fmt.Errorf("auth_service_password_update_failed: %w", err)
	}

	return nil
}

// Profile returns the caller's own account entity.
func (service *Service) Profile(ctx context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(ctx, userID)
}

// # Per-Request Identity Re-Check

/*
CheckActive re-validates an authenticated identity against storage.

It backs the authentication middleware on every request: a token is rejected
when the account is gone, deactivated, or the token was issued before the
last password change.

Returns:
  - err: apperr.Unauthorized describing the rejection, or storage failures
*/
func (service *Service) CheckActive(ctx context.Context, userID string, tokenIssuedAt time.Time) error {
	user, err := service.userRepository.FindByID(ctx, userID)
	if err != nil {
		if appErr := apperr.As(err); appErr != nil && appErr.Code == "NOT_FOUND" {
			return apperr.Unauthorized("Invalid token")
		}
		return err
	}

	if !user.IsActive {
		return apperr.Unauthorized("Account is deactivated")
	}

	// JWT iat is truncated to whole seconds; fold the stored timestamp the
	// same way so a login in the same second as the change still passes.
	if tokenIssuedAt.Before(user.PasswordChangedAt.Truncate(time.Second)) {
		return apperr.Unauthorized("Invalid token")
	}

	return nil
}

// # Internal Helpers

// checkThrottle rejects the attempt when the failure counter is exhausted.
// Counter-store errors fail open: Redis being down must not block logins.
func (service *Service) checkThrottle(ctx context.Context, key string) error {
	if service.throttleRepository == nil || service.maxLoginAttempts <= 0 {
		return nil
	}

	attempts, err := service.throttleRepository.Attempts(ctx, key)
	if err != nil {
		service.logger.Warn("login throttle check failed", "error", err)
		return nil
	}

	if attempts >= service.maxLoginAttempts {
		return apperr.RateLimited(int(service.loginAttemptWindow.Seconds()))
	}

	return nil
}

// recordFailure bumps the failure counter; best-effort.
func (service *Service) recordFailure(ctx context.Context, key string) {
	if service.throttleRepository == nil {
		return
	}
	if _, err := service.throttleRepository.RecordFailure(ctx, key, service.loginAttemptWindow); err != nil {
		service.logger.Warn("login throttle record failed", "error", err)
	}
}

// resetThrottle clears the failure counter after a successful login; best-effort.
func (service *Service) resetThrottle(ctx context.Context, key string) {
	if service.throttleRepository == nil {
		return
	}
	if err := service.throttleRepository.Reset(ctx, key); err != nil {
		service.logger.Warn("login throttle reset failed", "error", err)
	}
}

// issuedAt extracts the iat claim, zero when absent.
func issuedAt(claims *sec.AuthClaims) time.Time {
	if claims.IssuedAt == nil {
		return time.Time{}
	}
	return claims.IssuedAt.Time
}
