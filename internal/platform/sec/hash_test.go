// Copyright (c) 2026 Adminkit. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huyld/adminkit/internal/platform/sec"
)

/*
TestPasswordHasher_RoundTrip verifies hash + verify with the minimum cost
(tests should not burn CPU on production-grade cost factors).
*/
func TestPasswordHasher_RoundTrip(t *testing.T) {
	hasher := sec.NewPasswordHasher(4)

	digest, err := hasher.Hash("s3cret-password")
	require.NoError(t, err)
	require.NotEmpty(t, digest)

	assert.True(t, hasher.Verify("s3cret-password", digest))
	assert.False(t, hasher.Verify("wrong-password", digest))
}

/*
TestPasswordHasher_MalformedDigest verifies that garbage digests are treated
as a mismatch, never as a panic or error.
*/
func TestPasswordHasher_MalformedDigest(t *testing.T) {
	hasher := sec.NewPasswordHasher(4)

	assert.False(t, hasher.Verify("anything", ""))
	assert.False(t, hasher.Verify("anything", "not-a-bcrypt-digest"))
}

/*
TestNewPasswordHasher_CostClamping ensures out-of-range costs still produce
a usable hasher.
*/
func TestNewPasswordHasher_CostClamping(t *testing.T) {
	hasher := sec.NewPasswordHasher(99)

	digest, err := hasher.Hash("pw")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("pw", digest))
}
