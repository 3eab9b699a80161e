package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/recibo/receipts-server/internal/model"
)

func newUserApp(service *mockAccountService, identity model.Identity) *fiber.App {
	h := NewUser(service, testLogger())
	gate := authGate(identity)

	app := fiber.New()
	app.Post("/user", h.Create)
	app.Get("/user", gate.Handle, h.Get)
	app.Put("/user", gate.Handle, h.Update)
	app.Patch("/user-update-password", gate.Handle, h.UpdatePassword)
	app.Delete("/user", gate.Handle, h.Delete)
	return app
}

func TestUser_Create_WithImage(t *testing.T) {
	service := &mockAccountService{}
	service.On("Create", mock.Anything, mock.MatchedBy(func(p model.CreateAccountParams) bool {
		return p.FullName == "Ana Paula" &&
			p.Email == "ana@mail.com" &&
			p.Password == "abc123" &&
			p.PhoneNumber == "5512345678" &&
			p.Image != nil && p.Image.FileName == "me.png"
	})).Return(nil)
	app := newUserApp(service, model.Identity{})

	req := multipartRequest(t, "POST", "/user", map[string]string{
		"fullName":    "Ana Paula",
		"email":       "ana@mail.com",
		"password":    "abc123",
		"phoneNumber": "5512345678",
	}, "profileImg", "me.png")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	message, _ := decodeResponse(t, resp.Body)
	assert.Equal(t, "¡User created successfully!", message)
	service.AssertExpectations(t)
}

func TestUser_Create_WithoutImage(t *testing.T) {
	service := &mockAccountService{}
	service.On("Create", mock.Anything, mock.MatchedBy(func(p model.CreateAccountParams) bool {
		return p.Image == nil
	})).Return(nil)
	app := newUserApp(service, model.Identity{})

	req := multipartRequest(t, "POST", "/user", map[string]string{
		"fullName": "Ana Paula",
		"email":    "ana@mail.com",
		"password": "abc123",
	}, "", "")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestUser_Create_EmailTaken(t *testing.T) {
	service := &mockAccountService{}
	service.On("Create", mock.Anything, mock.Anything).Return(model.ErrEmailTaken)
	app := newUserApp(service, model.Identity{})

	req := multipartRequest(t, "POST", "/user", map[string]string{
		"fullName": "Ana Paula",
		"email":    "taken@mail.com",
		"password": "abc123",
	}, "", "")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	message, _ := decodeResponse(t, resp.Body)
	assert.Equal(t, "¡The email provided is already register!", message)
}

func TestUser_Get(t *testing.T) {
	userID := uuid.New()
	service := &mockAccountService{}
	service.On("Get", mock.Anything, userID).Return(model.UserView{
		ID:         userID,
		FullName:   "Ana Paula",
		Email:      "ana@mail.com",
		ProfileImg: "http://cdn.local/profiles/abc.png",
	}, nil)
	app := newUserApp(service, model.Identity{UserID: userID, Email: "ana@mail.com"})

	resp, err := app.Test(httptest.NewRequest("GET", "/user", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	message, data := decodeResponse(t, resp.Body)
	assert.Equal(t, "¡OK!", message)

	view, ok := data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ana@mail.com", view["email"])
	assert.Equal(t, "http://cdn.local/profiles/abc.png", view["profileImg"])
	assert.NotContains(t, view, "password")
}

func TestUser_Get_NotFound(t *testing.T) {
	service := &mockAccountService{}
	service.On("Get", mock.Anything, mock.Anything).Return(model.UserView{}, model.ErrNotFound)
	app := newUserApp(service, model.Identity{UserID: uuid.New()})

	resp, err := app.Test(httptest.NewRequest("GET", "/user", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	message, _ := decodeResponse(t, resp.Body)
	assert.Equal(t, "¡Could not found the user!", message)
}

func TestUser_Update_WithoutImage(t *testing.T) {
	userID := uuid.New()
	service := &mockAccountService{}
	service.On("UpdateProfile", mock.Anything, userID, "Ana Sofia", "5599999999",
		(*model.ImageUpload)(nil)).Return(nil)
	app := newUserApp(service, model.Identity{UserID: userID})

	req := multipartRequest(t, "PUT", "/user", map[string]string{
		"fullName":    "Ana Sofia",
		"phoneNumber": "5599999999",
	}, "", "")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	message, _ := decodeResponse(t, resp.Body)
	assert.Equal(t, "¡User update successfully!", message)
	service.AssertExpectations(t)
}

func TestUser_UpdatePassword_Success(t *testing.T) {
	userID := uuid.New()
	service := &mockAccountService{}
	service.On("UpdatePassword", mock.Anything, userID, "new123", "new123").
		Return("rotated-token", nil)
	app := newUserApp(service, model.Identity{UserID: userID})

	resp, err := app.Test(jsonRequest(t, "PATCH", "/user-update-password", fiber.Map{
		"newPassword":       "new123",
		"newRepeatPassword": "new123",
	}))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	message, data := decodeResponse(t, resp.Body)
	assert.Equal(t, "¡User password update successfully!", message)
	assert.Equal(t, "rotated-token", data)
}

func TestUser_UpdatePassword_Mismatch(t *testing.T) {
	service := &mockAccountService{}
	service.On("UpdatePassword", mock.Anything, mock.Anything, "new123", "other1").
		Return("", model.ErrPasswordMismatch)
	app := newUserApp(service, model.Identity{UserID: uuid.New()})

	resp, err := app.Test(jsonRequest(t, "PATCH", "/user-update-password", fiber.Map{
		"newPassword":       "new123",
		"newRepeatPassword": "other1",
	}))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	message, _ := decodeResponse(t, resp.Body)
	assert.Equal(t, "¡The passwords provided does not have the same value!", message)
}

func TestUser_Delete(t *testing.T) {
	userID := uuid.New()
	service := &mockAccountService{}
	service.On("Delete", mock.Anything, userID).Return(nil)
	app := newUserApp(service, model.Identity{UserID: userID})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/user", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	message, _ := decodeResponse(t, resp.Body)
	assert.Equal(t, "¡User delete successfully!", message)
	service.AssertExpectations(t)
}
