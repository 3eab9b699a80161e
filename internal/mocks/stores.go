// Package mocks provides testify mocks for the model interfaces.
package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/recibo/receipts-server/internal/model"
)

type UserStore struct {
	mock.Mock
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phoneNumber, profileImg string) error {
	args := m.Called(ctx, id, fullName, phoneNumber, profileImg)
	return args.Error(0)
}

func (m *UserStore) RotateCredentials(ctx context.Context, id uuid.UUID, passwordHash, token string) error {
	args := m.Called(ctx, id, passwordHash, token)
	return args.Error(0)
}

type SessionStore struct {
	mock.Mock
}

func (m *SessionStore) GetByUserID(ctx context.Context, userID uuid.UUID) (model.Session, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *SessionStore) Upsert(ctx context.Context, userID uuid.UUID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *SessionStore) Clear(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type ReceiptStore struct {
	mock.Mock
}

func (m *ReceiptStore) Create(ctx context.Context, receipt model.Receipt) (model.Receipt, error) {
	args := m.Called(ctx, receipt)
	return args.Get(0).(model.Receipt), args.Error(1)
}

func (m *ReceiptStore) GetByID(ctx context.Context, userID uuid.UUID, id int64) (model.Receipt, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(model.Receipt), args.Error(1)
}

func (m *ReceiptStore) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Receipt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Receipt), args.Error(1)
}

func (m *ReceiptStore) Update(ctx context.Context, receipt model.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *ReceiptStore) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type AccountPurger struct {
	mock.Mock
}

func (m *AccountPurger) PurgeUser(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type Storage struct {
	mock.Mock
}

func (m *Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string, public bool) error {
	args := m.Called(ctx, key, reader, size, contentType, public)
	return args.Error(0)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Storage) DeleteMany(ctx context.Context, keys []string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *Storage) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) Issue(userID uuid.UUID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) Verify(token string) (model.Identity, error) {
	args := m.Called(token)
	return args.Get(0).(model.Identity), args.Error(1)
}
