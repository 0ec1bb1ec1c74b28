package auth

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
)

var (
	ErrAuthHeaderMissing   = errors.New("no authorization header")
	ErrAuthHeaderMalformed = errors.New("invalid authorization header")
	ErrKeySetUnavailable   = errors.New("key set unavailable")
	ErrSignatureInvalid    = errors.New("invalid access token")
)

// Claims are the verified token claims a request is authorized with.
// They live for one authorization decision and are never persisted.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type keySet struct {
	Keys []struct {
		Kid string   `json:"kid"`
		X5c []string `json:"x5c"`
	} `json:"keys"`
}

// JWKSVerifier verifies RS256 bearer tokens against a remote JSON Web Key
// Set. By default the key set is fetched on every verification; a positive
// cacheTTL keeps the extracted key for that long instead.
type JWKSVerifier struct {
	jwksURL    string
	httpClient *http.Client
	cache      *cache.Cache
	cacheTTL   time.Duration
}

const signingKeyCacheKey = "signing-key"

func NewJWKSVerifier(jwksURL string, cacheTTL time.Duration) *JWKSVerifier {
	return &JWKSVerifier{
		jwksURL: jwksURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		cache:    cache.New(5*time.Minute, 10*time.Minute),
		cacheTTL: cacheTTL,
	}
}

// Verify checks the Authorization header shape, verifies the token
// signature against the published key set and returns the decoded claims.
func (v *JWKSVerifier) Verify(ctx context.Context, authHeader string) (Claims, error) {
	token, err := extractToken(authHeader)

	if err != nil {
		slog.Error("user not authorized", "error", err)
		return Claims{}, err
	}

	key, err := v.signingKey(ctx)

	if err != nil {
		slog.Error("get key set failed", "error", err)
		return Claims{}, fmt.Errorf("%w: %v", ErrKeySetUnavailable, err)
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"RS256"}))

	if err != nil {
		slog.Error("user not authorized", "error", err)
		return Claims{}, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	registered := parsed.Claims.(*jwt.RegisteredClaims)

	claims := Claims{
		Subject: registered.Subject,
		Issuer:  registered.Issuer,
	}

	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}

	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}

	slog.Info("user authorized", "sub", claims.Subject)

	return claims, nil
}

func extractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrAuthHeaderMissing
	}

	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return "", ErrAuthHeaderMalformed
	}

	parts := strings.SplitN(authHeader, " ", 2)

	return parts[1], nil
}

// signingKey fetches the key set and extracts the public key from the
// first published certificate. Key index 0 is what the deployment's
// provider publishes its signing certificate under.
func (v *JWKSVerifier) signingKey(ctx context.Context) (*rsa.PublicKey, error) {
	if v.cacheTTL > 0 {
		if cached, found := v.cache.Get(signingKeyCacheKey); found {
			return cached.(*rsa.PublicKey), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)

	if err != nil {
		return nil, err
	}

	resp, err := v.httpClient.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("key set endpoint returned %d", resp.StatusCode)
	}

	var doc keySet

	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, err
	}

	if len(doc.Keys) == 0 || len(doc.Keys[0].X5c) == 0 {
		return nil, errors.New("key set has no certificates")
	}

	der, err := base64.StdEncoding.DecodeString(doc.Keys[0].X5c[0])

	if err != nil {
		return nil, err
	}

	cert, err := x509.ParseCertificate(der)

	if err != nil {
		return nil, err
	}

	key, ok := cert.PublicKey.(*rsa.PublicKey)

	if !ok {
		return nil, errors.New("certificate does not carry an RSA key")
	}

	if v.cacheTTL > 0 {
		v.cache.Set(signingKeyCacheKey, key, v.cacheTTL)
	}

	return key, nil
}
