// Package auth resolves the caller's user id from an incoming request.
// The resolver is chosen once at startup and injected through middleware;
// handlers only ever see the resolved id via IdentityFrom.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
)

// HeaderUserID is read by HeaderResolver.
const HeaderUserID = "X-User-ID"

// Resolver extracts the authenticated user id from r. Every failure wraps
// domain.ErrAuth.
type Resolver interface {
	Resolve(r *http.Request) (uuid.UUID, error)
}

// Claims are the token claims issued and accepted by this service. The user
// id travels in user_id; the registered subject is accepted as a fallback.
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTResolver validates HS256 bearer tokens.
type JWTResolver struct {
	secret []byte
}

// NewJWTResolver returns a resolver that checks signatures with secret.
func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret)}
}

// Resolve implements Resolver.
func (j *JWTResolver) Resolve(r *http.Request) (uuid.UUID, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return uuid.Nil, fmt.Errorf("%w: authorization header required", domain.ErrAuth)
	}
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		return uuid.Nil, fmt.Errorf("%w: invalid authorization header format", domain.ErrAuth)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, fmt.Errorf("%w: token expired", domain.ErrAuth)
		}
		return uuid.Nil, fmt.Errorf("%w: invalid token", domain.ErrAuth)
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	id, err := uuid.Parse(subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: token carries no user id", domain.ErrAuth)
	}
	return id, nil
}

// Issue signs a token for userID that expires after ttl. A zero ttl issues a
// token without expiry.
func (j *JWTResolver) Issue(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

// HeaderResolver trusts the X-User-ID header. It exists for the in-memory
// demo mode and must not face the internet.
type HeaderResolver struct{}

// Resolve implements Resolver.
func (HeaderResolver) Resolve(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: %s header required", domain.ErrAuth, HeaderUserID)
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a uuid", domain.ErrAuth, HeaderUserID)
	}
	return id, nil
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying the caller's user id.
func WithIdentity(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom returns the user id stored by WithIdentity.
func IdentityFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}
