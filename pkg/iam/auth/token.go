package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Abraxas-365/sift/pkg/errx"
	"github.com/Abraxas-365/sift/pkg/kernel"
)

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeInvalidToken = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthentication, 401, "invalid or expired token")
	CodeMissingAuth  = ErrRegistry.Register("MISSING_AUTH", errx.TypeAuthentication, 401, "authentication required")
	CodeForbidden    = ErrRegistry.Register("FORBIDDEN", errx.TypeAuthorization, 403, "insufficient permissions")
	CodeInvalidKey   = ErrRegistry.Register("INVALID_API_KEY", errx.TypeAuthentication, 401, "invalid API key")
)

// Claims is the JWT payload issued for interactive users
type Claims struct {
	UserID   string   `json:"uid"`
	TenantID string   `json:"tid,omitempty"`
	Scopes   []string `json:"scopes"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies access tokens
type TokenService interface {
	Issue(userID kernel.UserID, tenantID kernel.TenantID, scopes []string) (string, error)
	Verify(token string) (*Claims, error)
}

// JWTService signs tokens with a shared HMAC secret
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewJWTService(secret []byte, issuer string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTService{secret: secret, issuer: issuer, ttl: ttl}
}

func (s *JWTService) Issue(userID kernel.UserID, tenantID kernel.TenantID, scopes []string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID.String(),
		TenantID: tenantID.String(),
		Scopes:   scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeInvalidToken, err)
	}
	return signed, nil
}

func (s *JWTService) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrRegistry.New(CodeInvalidToken)
	}
	return claims, nil
}
