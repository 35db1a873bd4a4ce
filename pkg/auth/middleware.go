package auth

import (
	"context"
	"net/http"
	"strings"

	apperrors "clinic/pkg/errors"
	httputil "clinic/pkg/http"
	"clinic/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type claimsKey struct{}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

// RoleLookup returns the stored role of a user. A user that no longer exists
// is reported with an error carrying CodeNotFound.
type RoleLookup interface {
	CurrentRole(ctx context.Context, userID string) (model.Role, error)
}

// Guard wraps httprouter handles with bearer token checks.
type Guard struct {
	tokens *TokenIssuer
	roles  RoleLookup
}

func NewGuard(tokens *TokenIssuer) *Guard {
	return &Guard{tokens: tokens}
}

// WithRoleLookup makes guarded handles re-read the caller's role on every
// request, so demotions and deletions apply before the token expires.
func (g *Guard) WithRoleLookup(roles RoleLookup) *Guard {
	g.roles = roles
	return g
}

func (g *Guard) refreshRole(ctx context.Context, claims *Claims) (*Claims, error) {
	if g.roles == nil {
		return claims, nil
	}
	role, err := g.roles.CurrentRole(ctx, claims.Sub)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.Unauthorized("Account no longer exists")
		}
		return nil, err
	}
	fresh := *claims
	fresh.Role = string(role)
	return &fresh, nil
}

func (g *Guard) authenticate(r *http.Request) (*Claims, error) {
	h := r.Header.Get("Authorization")
	tok, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || strings.TrimSpace(tok) == "" {
		return nil, apperrors.Unauthorized("Missing bearer token")
	}
	claims, err := g.tokens.Parse(strings.TrimSpace(tok))
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}
	return claims, nil
}

// Require lets any authenticated caller through.
func (g *Guard) Require(next httprouter.Handle) httprouter.Handle {
	return g.RequireRole(next)
}

func (g *Guard) RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return g.RequireRole(next, "admin")
}

// RequireRole admits authenticated callers holding one of roles; no roles
// means any authenticated caller.
func (g *Guard) RequireRole(next httprouter.Handle, roles ...string) httprouter.Handle {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := g.authenticate(r)
		if err == nil {
			claims, err = g.refreshRole(r.Context(), claims)
		}
		if err != nil {
			_ = httputil.WriteError(w, err)
			return
		}
		if len(allowed) > 0 {
			if _, ok := allowed[claims.Role]; !ok {
				_ = httputil.WriteError(w, apperrors.Forbidden("Insufficient permissions"))
				return
			}
		}
		next(w, r.WithContext(WithClaims(r.Context(), claims)), ps)
	}
}

// Subject returns the user ID of a valid bearer token on r, or "".
func (g *Guard) Subject(r *http.Request) string {
	claims, err := g.authenticate(r)
	if err != nil {
		return ""
	}
	return claims.Sub
}
