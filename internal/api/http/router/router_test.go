package router

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recibo/receipts-server/internal/api/http/handler"
	"github.com/recibo/receipts-server/internal/api/http/middleware"
	"github.com/recibo/receipts-server/internal/logger"
	"github.com/recibo/receipts-server/internal/model"
)

type stubSession struct{}

func (stubSession) Login(context.Context, string, string) (string, error)  { return "token", nil }
func (stubSession) Refresh(context.Context, string) (string, error)       { return "token", nil }
func (stubSession) SignOut(context.Context, uuid.UUID) error              { return nil }

type stubAccount struct{}

func (stubAccount) Create(context.Context, model.CreateAccountParams) error { return nil }
func (stubAccount) Get(context.Context, uuid.UUID) (model.UserView, error) {
	return model.UserView{}, nil
}
func (stubAccount) UpdateProfile(context.Context, uuid.UUID, string, string, *model.ImageUpload) error {
	return nil
}
func (stubAccount) UpdatePassword(context.Context, uuid.UUID, string, string) (string, error) {
	return "token", nil
}
func (stubAccount) Delete(context.Context, uuid.UUID) error { return nil }

type stubReceipt struct{}

func (stubReceipt) Create(context.Context, model.ReceiptParams) (model.ReceiptView, error) {
	return model.ReceiptView{}, nil
}
func (stubReceipt) Get(context.Context, uuid.UUID, int64) (model.ReceiptView, error) {
	return model.ReceiptView{}, nil
}
func (stubReceipt) List(context.Context, uuid.UUID) ([]model.ReceiptView, error) {
	return nil, nil
}
func (stubReceipt) Update(context.Context, int64, model.ReceiptParams) error { return nil }
func (stubReceipt) Delete(context.Context, uuid.UUID, int64) error           { return nil }

type rejectingAuth struct{}

func (rejectingAuth) Authenticate(context.Context, string) (model.Identity, error) {
	return model.Identity{}, model.ErrTokenMissing
}

func newTestApp() *fiber.App {
	log := logger.New(0)
	return New(
		handler.NewSession(stubSession{}, log),
		handler.NewUser(stubAccount{}, log),
		handler.NewReceipt(stubReceipt{}, log),
		middleware.NewAuthenticate(rejectingAuth{}, log),
		middleware.NewLogging(log),
	).App()
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["time"])
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp()

	routes := []struct {
		method string
		path   string
	}{
		{"POST", "/sign-out"},
		{"GET", "/user"},
		{"PUT", "/user"},
		{"PATCH", "/user-update-password"},
		{"DELETE", "/user"},
		{"GET", "/receipts"},
		{"GET", "/receipt"},
		{"POST", "/receipt"},
		{"PUT", "/receipt"},
		{"DELETE", "/receipt"},
	}

	for _, route := range routes {
		t.Run(route.method+"_"+strings.TrimPrefix(route.path, "/"), func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(route.method, route.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		})
	}
}

func TestRouter_LoginIsPublic(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/log-in", strings.NewReader(`{"email":"a@b.com","password":"abc123"}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRouter_CORSHeaders(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
