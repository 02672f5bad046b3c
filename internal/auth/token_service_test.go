package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{
		Secret: "unit-test-secret-key-of-decent-size",
		Issuer: "hackmatch-test",
	})
	require.NoError(t, err)

	token, err := svc.Issue("user_2fGq1")
	require.NoError(t, err)

	subject, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "user_2fGq1", subject)
}

func TestTokenServiceRejectsExpiredToken(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	issuer, err := NewTokenService(TokenConfig{
		Secret: "unit-test-secret-key-of-decent-size",
		TTL:    time.Minute,
		Clock:  func() time.Time { return issued },
	})
	require.NoError(t, err)

	token, err := issuer.Issue("user_expired")
	require.NoError(t, err)

	verifier, err := NewTokenService(TokenConfig{
		Secret: "unit-test-secret-key-of-decent-size",
	})
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	require.Error(t, err)
}

func TestTokenServiceRejectsForeignIssuer(t *testing.T) {
	other, err := NewTokenService(TokenConfig{
		Secret: "unit-test-secret-key-of-decent-size",
		Issuer: "someone-else",
	})
	require.NoError(t, err)

	token, err := other.Issue("user_foreign")
	require.NoError(t, err)

	svc, err := NewTokenService(TokenConfig{
		Secret: "unit-test-secret-key-of-decent-size",
		Issuer: "hackmatch-test",
	})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token)
	require.Error(t, err)
}

func TestTokenServiceRejectsTamperedToken(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{
		Secret: "unit-test-secret-key-of-decent-size",
	})
	require.NoError(t, err)

	token, err := svc.Issue("user_tampered")
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token+"x")
	require.Error(t, err)
}

func TestTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(TokenConfig{})
	require.Error(t, err)
}
