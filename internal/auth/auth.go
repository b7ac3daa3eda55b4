// Package auth verifies bearer tokens and exposes the caller's record scope.
// Tokens are issued elsewhere; this package only reads them.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Scope is the record visibility granted to a caller.
type Scope string

const (
	ScopeOwn        Scope = "own"
	ScopeTeam       Scope = "team"
	ScopeDepartment Scope = "department"
	ScopeAll        Scope = "all"
)

type Principal struct {
	ActorID  uuid.UUID
	Scope    Scope
	OwnerIDs []uuid.UUID
}

// VisibleOwners returns the owners whose records the principal may see, or
// nil when the principal is unrestricted.
func (p Principal) VisibleOwners() []uuid.UUID {
	switch p.Scope {
	case ScopeAll:
		return nil
	case ScopeTeam, ScopeDepartment:
		owners := slices.Clone(p.OwnerIDs)
		if !slices.Contains(owners, p.ActorID) {
			owners = append(owners, p.ActorID)
		}

		return owners
	default:
		return []uuid.UUID{p.ActorID}
	}
}

type Claims struct {
	Scope  Scope    `json:"scope"`
	Owners []string `json:"owners,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 tokens signed with a shared secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(tokenString string) (Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return v.secret, nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	actorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: subject is not a uuid", ErrInvalidToken)
	}

	p := Principal{ActorID: actorID, Scope: claims.Scope}

	switch p.Scope {
	case ScopeOwn, ScopeTeam, ScopeDepartment, ScopeAll:
	case "":
		p.Scope = ScopeOwn
	default:
		return Principal{}, fmt.Errorf("%w: unknown scope %q", ErrInvalidToken, claims.Scope)
	}

	for _, raw := range claims.Owners {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Principal{}, fmt.Errorf("%w: owner %q is not a uuid", ErrInvalidToken, raw)
		}

		p.OwnerIDs = append(p.OwnerIDs, id)
	}

	return p, nil
}

// Issue signs a token for p. Used by local tooling and tests.
func (v *Verifier) Issue(p Principal, ttl time.Duration) (string, error) {
	now := time.Now()

	owners := make([]string, 0, len(p.OwnerIDs))
	for _, id := range p.OwnerIDs {
		owners = append(owners, id.String())
	}

	claims := Claims{
		Scope:  p.Scope,
		Owners: owners,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ActorID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

type contextKey string

const principalKey contextKey = "principal"

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// Middleware rejects requests without a valid bearer token and stores the
// Principal in the request context.
func Middleware(v *Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := v.fromRequest(r)
			if err != nil {
				logger.Warn("auth: rejected request",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})

				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func (v *Verifier) fromRequest(r *http.Request) (Principal, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Principal{}, ErrMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return Principal{}, fmt.Errorf("%w: malformed authorization header", ErrInvalidToken)
	}

	return v.Verify(token)
}
