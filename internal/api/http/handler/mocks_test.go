package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/recibo/receipts-server/internal/api/http/middleware"
	"github.com/recibo/receipts-server/internal/logger"
	"github.com/recibo/receipts-server/internal/model"
)

type mockSessionService struct {
	mock.Mock
}

func (m *mockSessionService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockSessionService) Refresh(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *mockSessionService) SignOut(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) Create(ctx context.Context, params model.CreateAccountParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *mockAccountService) Get(ctx context.Context, userID uuid.UUID) (model.UserView, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.UserView), args.Error(1)
}

func (m *mockAccountService) UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, phoneNumber string, image *model.ImageUpload) error {
	args := m.Called(ctx, userID, fullName, phoneNumber, image)
	return args.Error(0)
}

func (m *mockAccountService) UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword, newRepeatPassword string) (string, error) {
	args := m.Called(ctx, userID, newPassword, newRepeatPassword)
	return args.String(0), args.Error(1)
}

func (m *mockAccountService) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockReceiptService struct {
	mock.Mock
}

func (m *mockReceiptService) Create(ctx context.Context, params model.ReceiptParams) (model.ReceiptView, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.ReceiptView), args.Error(1)
}

func (m *mockReceiptService) Get(ctx context.Context, userID uuid.UUID, id int64) (model.ReceiptView, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(model.ReceiptView), args.Error(1)
}

func (m *mockReceiptService) List(ctx context.Context, userID uuid.UUID) ([]model.ReceiptView, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.ReceiptView), args.Error(1)
}

func (m *mockReceiptService) Update(ctx context.Context, id int64, params model.ReceiptParams) error {
	args := m.Called(ctx, id, params)
	return args.Error(0)
}

func (m *mockReceiptService) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// stubAuthenticator admits every request as the configured identity.
type stubAuthenticator struct {
	identity model.Identity
}

func (s *stubAuthenticator) Authenticate(context.Context, string) (model.Identity, error) {
	return s.identity, nil
}

func testLogger() *logger.Logger {
	return logger.New(0)
}

func authGate(identity model.Identity) *middleware.Authenticate {
	return middleware.NewAuthenticate(&stubAuthenticator{identity: identity}, testLogger())
}

func decodeResponse(t *testing.T, body io.Reader) (string, any) {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
		Data    any    `json:"data"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp.Message, resp.Data
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return req
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, fileField, fileName string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
