package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAccountLookup struct {
	mock.Mock
}

func (m *MockAccountLookup) LookupAccount(ctx context.Context, externalID string) (Account, bool, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(Account), args.Bool(1), args.Error(2)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, expiresAt, err := svc.Issue("line-U123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	id, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "line-U123", id)
}

func TestTokenService_Verify(t *testing.T) {
	t.Run("WrongSecret", func(t *testing.T) {
		token, _, err := NewTokenService("a", time.Hour).Issue("u1")
		require.NoError(t, err)

		_, err = NewTokenService("b", time.Hour).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		svc := NewTokenService("secret", time.Minute)
		svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, _, err := svc.Issue("u1")
		require.NoError(t, err)

		_, err = NewTokenService("secret", time.Minute).Verify(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := NewTokenService("secret", time.Hour).Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestResolver_Resolve(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	token, _, err := tokens.Issue("u1")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("Anonymous", func(t *testing.T) {
		r := NewResolver(tokens, new(MockAccountLookup))
		id, err := r.Resolve(ctx, "")
		assert.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("ActiveUser", func(t *testing.T) {
		accounts := new(MockAccountLookup)
		accounts.On("LookupAccount", ctx, "u1").Return(Account{ExternalID: "u1"}, true, nil).Once()

		id, err := NewResolver(tokens, accounts).Resolve(ctx, token)
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, RoleUser, id.Role)
		assert.False(t, id.IsAdmin())
		accounts.AssertExpectations(t)
	})

	t.Run("BlacklistedIsFlagged", func(t *testing.T) {
		accounts := new(MockAccountLookup)
		accounts.On("LookupAccount", ctx, "u1").Return(Account{ExternalID: "u1", Role: RoleAdmin, Blacklisted: true}, true, nil).Once()

		id, err := NewResolver(tokens, accounts).Resolve(ctx, token)
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.True(t, id.Blacklisted)
		assert.False(t, id.IsAdmin())
		assert.Nil(t, id.active())
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		accounts := new(MockAccountLookup)
		accounts.On("LookupAccount", ctx, "u1").Return(Account{}, false, nil).Once()

		id, err := NewResolver(tokens, accounts).Resolve(ctx, token)
		assert.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("LookupError", func(t *testing.T) {
		accounts := new(MockAccountLookup)
		accounts.On("LookupAccount", ctx, "u1").Return(Account{}, false, errors.New("db down")).Once()

		_, err := NewResolver(tokens, accounts).Resolve(ctx, token)
		assert.Error(t, err)
	})
}

func setupApp(r *Resolver) *fiber.App {
	app := fiber.New()
	app.Get("/me", OptionalAuth(r), func(c *fiber.Ctx) error {
		id := FromContext(c)
		if id == nil {
			return c.SendString("anonymous")
		}
		return c.SendString(id.ExternalID)
	})
	app.Get("/subject", OptionalAuth(r), func(c *fiber.Ctx) error {
		return c.SendString(SubjectFromContext(c))
	})
	app.Get("/admin", AdminOnly(r), func(c *fiber.Ctx) error {
		return c.SendString(string(FromContext(c).Role))
	})
	return app
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestMiddleware(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	userToken, _, _ := tokens.Issue("u1")
	adminToken, _, _ := tokens.Issue("a1")
	blockedToken, _, _ := tokens.Issue("b1")

	accounts := new(MockAccountLookup)
	accounts.On("LookupAccount", mock.Anything, "u1").Return(Account{ExternalID: "u1", Role: RoleUser}, true, nil)
	accounts.On("LookupAccount", mock.Anything, "a1").Return(Account{ExternalID: "a1", Role: RoleSuperAdmin}, true, nil)
	accounts.On("LookupAccount", mock.Anything, "b1").Return(Account{ExternalID: "b1", Role: RoleAdmin, Blacklisted: true}, true, nil)
	app := setupApp(NewResolver(tokens, accounts))

	t.Run("CookieIdentity", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: userToken})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "u1", readBody(t, resp))
	})

	t.Run("BlacklistedIsAnonymousButKeepsSubject", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+blockedToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "anonymous", readBody(t, resp))

		req = httptest.NewRequest("GET", "/subject", nil)
		req.Header.Set("Authorization", "Bearer "+blockedToken)
		resp, err = app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "b1", readBody(t, resp))
	})

	t.Run("AdminRejectsBlacklisted", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+blockedToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("AdminRequiresLogin", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("AdminRejectsUser", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+userToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("AdminAcceptsSuperAdmin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
