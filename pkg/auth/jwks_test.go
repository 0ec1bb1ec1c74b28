package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSigningKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "todos-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	return key, base64.StdEncoding.EncodeToString(der)
}

func newKeySetServer(t *testing.T, x5c string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"keys":[{"kid":"test-key","x5c":[%q]}]}`, x5c)
	}))
}

func signedToken(t *testing.T, key *rsa.PrivateKey, subject string, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(key)
	require.NoError(t, err)

	return signed
}

func TestVerifyValidToken(t *testing.T) {
	key, x5c := newSigningKey(t)
	server := newKeySetServer(t, x5c)
	defer server.Close()

	verifier := NewJWKSVerifier(server.URL, 0)
	token := signedToken(t, key, "user-1", time.Now().Add(time.Hour))

	claims, err := verifier.Verify(context.Background(), "Bearer "+token)

	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestVerifyLowercaseBearer(t *testing.T) {
	key, x5c := newSigningKey(t)
	server := newKeySetServer(t, x5c)
	defer server.Close()

	verifier := NewJWKSVerifier(server.URL, 0)
	token := signedToken(t, key, "user-1", time.Now().Add(time.Hour))

	claims, err := verifier.Verify(context.Background(), "bearer "+token)

	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestVerifyMissingHeader(t *testing.T) {
	verifier := NewJWKSVerifier("http://localhost:0", 0)

	_, err := verifier.Verify(context.Background(), "")

	assert.ErrorIs(t, err, ErrAuthHeaderMissing)
}

func TestVerifyMalformedHeader(t *testing.T) {
	verifier := NewJWKSVerifier("http://localhost:0", 0)

	_, err := verifier.Verify(context.Background(), "Token abc")

	assert.ErrorIs(t, err, ErrAuthHeaderMalformed)
}

func TestVerifyWrongSigningKey(t *testing.T) {
	_, x5c := newSigningKey(t)
	server := newKeySetServer(t, x5c)
	defer server.Close()

	otherKey, _ := newSigningKey(t)
	verifier := NewJWKSVerifier(server.URL, 0)
	token := signedToken(t, otherKey, "user-1", time.Now().Add(time.Hour))

	_, err := verifier.Verify(context.Background(), "Bearer "+token)

	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerifyExpiredToken(t *testing.T) {
	key, x5c := newSigningKey(t)
	server := newKeySetServer(t, x5c)
	defer server.Close()

	verifier := NewJWKSVerifier(server.URL, 0)
	token := signedToken(t, key, "user-1", time.Now().Add(-time.Hour))

	_, err := verifier.Verify(context.Background(), "Bearer "+token)

	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerifyKeySetUnavailable(t *testing.T) {
	key, x5c := newSigningKey(t)
	server := newKeySetServer(t, x5c)
	server.Close()

	verifier := NewJWKSVerifier(server.URL, 0)
	token := signedToken(t, key, "user-1", time.Now().Add(time.Hour))

	_, err := verifier.Verify(context.Background(), "Bearer "+token)

	assert.ErrorIs(t, err, ErrKeySetUnavailable)
}

func TestVerifyFetchesKeySetEveryCallByDefault(t *testing.T) {
	key, x5c := newSigningKey(t)

	fetches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		fmt.Fprintf(w, `{"keys":[{"x5c":[%q]}]}`, x5c)
	}))
	defer server.Close()

	verifier := NewJWKSVerifier(server.URL, 0)
	token := signedToken(t, key, "user-1", time.Now().Add(time.Hour))

	for i := 0; i < 3; i++ {
		_, err := verifier.Verify(context.Background(), "Bearer "+token)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, fetches)
}

func TestVerifyUsesCachedKeyWhenTTLConfigured(t *testing.T) {
	key, x5c := newSigningKey(t)
	server := newKeySetServer(t, x5c)

	verifier := NewJWKSVerifier(server.URL, time.Minute)
	token := signedToken(t, key, "user-1", time.Now().Add(time.Hour))

	_, err := verifier.Verify(context.Background(), "Bearer "+token)
	require.NoError(t, err)

	// the remote going away must not matter while the key is cached
	server.Close()

	claims, err := verifier.Verify(context.Background(), "Bearer "+token)

	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
}
