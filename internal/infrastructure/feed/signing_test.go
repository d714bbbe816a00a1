package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestSigner_Sign(t *testing.T) {
	signer := RequestSigner{Identity: "user", Secret: "secret"}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	sig := signer.Sign("GET", "count=10&order_by=name", now)

	assert.Len(t, sig.Signature, 40) // SHA-1 hex
	assert.Equal(t, "user", sig.Identity)
	assert.Equal(t, "Fri, 01 Mar 2024 12:00:00 UTC", sig.Date)

	// Deterministic for identical inputs
	again := signer.Sign("GET", "count=10&order_by=name", now)
	assert.Equal(t, sig.Signature, again.Signature)
}

func TestRequestSigner_Sign_InputSensitivity(t *testing.T) {
	signer := RequestSigner{Identity: "user", Secret: "secret"}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	base := signer.Sign("GET", "a=1", now)

	t.Run("method", func(t *testing.T) {
		assert.NotEqual(t, base.Signature, signer.Sign("POST", "a=1", now).Signature)
	})
	t.Run("query", func(t *testing.T) {
		assert.NotEqual(t, base.Signature, signer.Sign("GET", "a=2", now).Signature)
	})
	t.Run("timestamp", func(t *testing.T) {
		assert.NotEqual(t, base.Signature, signer.Sign("GET", "a=1", now.Add(time.Second)).Signature)
	})
	t.Run("identity", func(t *testing.T) {
		other := RequestSigner{Identity: "other", Secret: "secret"}
		assert.NotEqual(t, base.Signature, other.Sign("GET", "a=1", now).Signature)
	})
	t.Run("secret", func(t *testing.T) {
		other := RequestSigner{Identity: "user", Secret: "different"}
		assert.NotEqual(t, base.Signature, other.Sign("GET", "a=1", now).Signature)
	})
}
