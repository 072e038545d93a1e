// Copyright (c) 2026 Adminkit. All rights reserved.

package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huyld/adminkit/internal/auth"
	"github.com/huyld/adminkit/internal/platform/sec"
)

// newAuthRouter mounts the auth handler the way the server does.
func newAuthRouter(t *testing.T) (*chi.Mux, *fixture) {
	t.Helper()

	f := newFixture(t)
	router := chi.NewRouter()
	router.Mount("/auth", auth.NewHandler(f.service).Routes())
	return router, f
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHTTPLogin_Success verifies the login endpoint returns both tokens and the
profile, with the password hash absent from the JSON.
*/
func TestHTTPLogin_Success(t *testing.T) {
	router, f := newAuthRouter(t)

	recorder := postJSON(t, router, "/auth/login", map[string]string{
		"email":    testEmail,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data struct {
			AccessToken  string          `json:"access_token"`
			RefreshToken string          `json:"refresh_token"`
			User         json.RawMessage `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.NotContains(t, string(envelope.Data.User), "password")

	_, err := f.tokens.Verify(envelope.Data.AccessToken, sec.TokenTypeAccess)
	assert.NoError(t, err)
}

/*
TestHTTPLogin_OpaqueFailure verifies that the response body is byte-identical
for an unknown email and a wrong password.
*/
func TestHTTPLogin_OpaqueFailure(t *testing.T) {
	router, _ := newAuthRouter(t)

	unknown := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": testPassword,
	})
	wrongPassword := postJSON(t, router, "/auth/login", map[string]string{
		"email":    testEmail,
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, unknown.Body.String(), wrongPassword.Body.String())
}

/*
TestHTTPRefresh verifies the rotation round-trip and the rejection of junk.
*/
func TestHTTPRefresh(t *testing.T) {
	router, f := newAuthRouter(t)

	pair, err := f.tokens.IssuePair(testUserID, sec.RoleAdmin)
	require.NoError(t, err)

	t.Run("valid refresh token rotates", func(t *testing.T) {
		recorder := postJSON(t, router, "/auth/refresh", map[string]string{
			"refresh_token": pair.RefreshToken,
		})
		require.Equal(t, http.StatusOK, recorder.Code)

		var envelope struct {
			Data sec.TokenPair `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.NotEmpty(t, envelope.Data.AccessToken)
		assert.NotEmpty(t, envelope.Data.RefreshToken)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		recorder := postJSON(t, router, "/auth/refresh", map[string]string{
			"refresh_token": "not-a-token",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
