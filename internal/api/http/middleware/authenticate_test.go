package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recibo/receipts-server/internal/logger"
	"github.com/recibo/receipts-server/internal/model"
)

type stubAuthenticator struct {
	identity model.Identity
	err      error
	gotToken string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (model.Identity, error) {
	s.gotToken = token
	return s.identity, s.err
}

func newAuthApp(auth Authenticator) *fiber.App {
	app := fiber.New()
	m := NewAuthenticate(auth, logger.New(0))
	app.Get("/protected", m.Handle, func(c *fiber.Ctx) error {
		identity, ok := IdentityFromCtx(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"email": identity.Email})
	})
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&m))
	return m
}

func TestAuthenticate_MissingToken(t *testing.T) {
	auth := &stubAuthenticator{err: model.ErrTokenMissing}
	app := newAuthApp(auth)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "¡Token not found!", decodeBody(t, resp.Body)["message"])
	assert.Equal(t, "", auth.gotToken)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	auth := &stubAuthenticator{err: model.ErrTokenInvalid}
	app := newAuthApp(auth)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(TokenHeader, "stale-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "¡Invalid token!", decodeBody(t, resp.Body)["message"])
	assert.Equal(t, "stale-token", auth.gotToken)
}

func TestAuthenticate_Success(t *testing.T) {
	auth := &stubAuthenticator{identity: model.Identity{
		UserID: uuid.New(),
		Email:  "ana@mail.com",
	}}
	app := newAuthApp(auth)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(TokenHeader, "live-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ana@mail.com", decodeBody(t, resp.Body)["email"])
}

func TestIdentityFromCtx_Unset(t *testing.T) {
	app := fiber.New()
	app.Get("/open", func(c *fiber.Ctx) error {
		_, ok := IdentityFromCtx(c)
		assert.False(t, ok)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/open", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
