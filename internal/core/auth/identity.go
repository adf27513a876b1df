package auth

import (
	"context"
	"errors"
	"strings"

	"shop-checkout/internal/core/apperr"
	"shop-checkout/internal/core/httpx"
	"shop-checkout/internal/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Role is the authorization level of an account.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// SessionCookie is the cookie name carrying the session token.
const SessionCookie = "session"

const identityLocal = "identity"

var (
	ErrNotLoggedIn = apperr.New(apperr.Authorization, "NotLoggedIn", "login required")
	ErrNotAdmin    = apperr.New(apperr.Authorization, "NotAdmin", "administrator permission required")
)

// Identity is the authenticated caller, resolved against the user directory on every request.
type Identity struct {
	ExternalID  string
	Role        Role
	Blacklisted bool
}

// IsAdmin reports whether the identity carries an administrative role.
func (i *Identity) IsAdmin() bool {
	return i != nil && !i.Blacklisted && (i.Role == RoleAdmin || i.Role == RoleSuperAdmin)
}

// active returns i, or nil when the account is blacklisted.
func (i *Identity) active() *Identity {
	if i == nil || i.Blacklisted {
		return nil
	}
	return i
}

// Account is the current directory state of a user.
type Account struct {
	ExternalID  string
	Role        Role
	Blacklisted bool
}

// AccountLookup reads the current account state. found=false means the id is unknown.
type AccountLookup interface {
	LookupAccount(ctx context.Context, externalID string) (account Account, found bool, err error)
}

// Resolver turns request credentials into an Identity.
type Resolver struct {
	tokens   *TokenService
	accounts AccountLookup
}

// NewResolver creates a new Resolver.
func NewResolver(tokens *TokenService, accounts AccountLookup) *Resolver {
	return &Resolver{tokens: tokens, accounts: accounts}
}

// Resolve validates the token and re-queries the account. It returns nil for a missing,
// invalid or expired token and for an unknown account. Blacklisted accounts are returned
// flagged so callers can report the block.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, nil
	}

	externalID, err := r.tokens.Verify(token)
	if err != nil {
		return nil, nil
	}

	account, found, err := r.accounts.LookupAccount(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	role := account.Role
	if role == "" {
		role = RoleUser
	}
	return &Identity{ExternalID: externalID, Role: role, Blacklisted: account.Blacklisted}, nil
}

// ExtractToken reads the session token from the cookie or the Authorization header.
func ExtractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(SessionCookie); cookie != "" {
		return cookie
	}
	if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// Extract resolves the caller of the request, nil meaning anonymous. Blacklisted
// accounts are treated as anonymous.
func (r *Resolver) Extract(c *fiber.Ctx) (*Identity, error) {
	id, err := r.Resolve(c.UserContext(), ExtractToken(c))
	if err != nil {
		return nil, err
	}
	return id.active(), nil
}

// RequireAdmin resolves the caller and fails unless it holds an administrative role.
func (r *Resolver) RequireAdmin(c *fiber.Ctx) (*Identity, error) {
	id, err := r.Extract(c)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, ErrNotLoggedIn
	}
	if !id.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return id, nil
}

// OptionalAuth stores the resolved identity, blacklisted or not, in the request locals.
func OptionalAuth(r *Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := r.Resolve(c.UserContext(), ExtractToken(c))
		if err != nil {
			logger.Get().Error("Identity lookup failed", zap.Error(err))
			return httpx.WriteError(c, apperr.PersistenceErr("identity lookup", err))
		}
		if id != nil {
			WithIdentity(c, id)
		}
		return c.Next()
	}
}

// AdminOnly rejects the request unless the caller is an administrator.
func AdminOnly(r *Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := r.RequireAdmin(c)
		if err != nil {
			var appErr *apperr.Error
			if !errors.As(err, &appErr) {
				err = apperr.PersistenceErr("identity lookup", err)
			}
			return httpx.WriteError(c, err)
		}
		WithIdentity(c, id)
		return c.Next()
	}
}

// WithIdentity stores id in the request locals.
func WithIdentity(c *fiber.Ctx, id *Identity) {
	c.Locals(identityLocal, id)
}

// FromContext returns the active identity stored by OptionalAuth or AdminOnly, or nil.
func FromContext(c *fiber.Ctx) *Identity {
	id, _ := c.Locals(identityLocal).(*Identity)
	return id.active()
}

// SubjectFromContext returns the external id of the authenticated caller, including a
// blacklisted one, or "".
func SubjectFromContext(c *fiber.Ctx) string {
	if id, ok := c.Locals(identityLocal).(*Identity); ok && id != nil {
		return id.ExternalID
	}
	return ""
}
