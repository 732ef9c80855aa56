package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Actor identifies the authenticated principal on a request. The zero
// value means unauthenticated.
type Actor struct {
	ID    string
	Roles []string
}

func (a Actor) IsAdmin() bool {
	for _, role := range a.Roles {
		if role == RoleAdmin {
			return true
		}
	}
	return false
}

type contextKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// FromContext returns the request actor. ok is false when the request
// carried no valid credentials.
func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(Actor)
	if !ok || actor.ID == "" {
		return Actor{}, false
	}
	return actor, true
}

// ParseToken validates an HS256 bearer token and extracts the actor from
// its claims: "sub" for the user id, "roles" for the role list.
func ParseToken(tokenString, secret string) (Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Actor{}, ErrTokenExpired
		}
		return Actor{}, ErrInvalidToken
	}
	if !token.Valid {
		return Actor{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Actor{}, ErrInvalidToken
	}

	var roles []string
	if raw, ok := claims["roles"].([]any); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
	}

	return Actor{ID: sub, Roles: roles}, nil
}

// NewToken signs an actor into a token. Used by tests and local tooling;
// issuing real tokens is the identity provider's job.
func NewToken(actor Actor, secret string, claims jwt.MapClaims) (string, error) {
	if claims == nil {
		claims = jwt.MapClaims{}
	}
	claims["sub"] = actor.ID
	roles := make([]any, 0, len(actor.Roles))
	for _, r := range actor.Roles {
		roles = append(roles, r)
	}
	claims["roles"] = roles

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
