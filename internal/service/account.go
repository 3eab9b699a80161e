package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/recibo/receipts-server/internal/logger"
	"github.com/recibo/receipts-server/internal/model"
	"github.com/recibo/receipts-server/internal/validation"
)

// Account orchestrates account writes, including the cascading delete
// that removes a user's receipts, session and stored images.
type Account struct {
	users      model.UserStore
	sessions   model.SessionStore
	receipts   model.ReceiptStore
	purger     model.AccountPurger
	storage    model.Storage
	tokens     model.TokenManager
	validate   *validation.Validator
	bcryptCost int
	logger     *logger.Logger
}

func NewAccount(
	users model.UserStore,
	sessions model.SessionStore,
	receipts model.ReceiptStore,
	purger model.AccountPurger,
	storage model.Storage,
	tokens model.TokenManager,
	validate *validation.Validator,
	bcryptCost int,
	logger *logger.Logger,
) *Account {
	return &Account{
		users:      users,
		sessions:   sessions,
		receipts:   receipts,
		purger:     purger,
		storage:    storage,
		tokens:     tokens,
		validate:   validate,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// neutral placeholders satisfy the validator's schema on flows that do
// not carry the corresponding fields.
const (
	neutralEmail    = "email@email.com"
	neutralPassword = "A"
)

// Create registers a new account. The profile image, if any, is uploaded
// before the insert; email uniqueness is enforced by the storage layer
// and surfaces as ErrEmailTaken.
func (s *Account) Create(ctx context.Context, params model.CreateAccountParams) error {
	s.logger.Debug("Account service: creating account", "email", params.Email)

	fields := validation.UserFields{
		FullName:    params.FullName,
		Email:       params.Email,
		Password:    params.Password,
		PhoneNumber: params.PhoneNumber,
	}
	if params.Image != nil {
		fields.ProfileImg = params.Image.FileName
	}
	if err := s.validate.ValidateUser(fields); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	imageKey := ""
	if params.Image != nil {
		imageKey = newImageKey("profiles", params.Image.FileName)
		err := s.storage.Upload(ctx, imageKey, params.Image.Reader, params.Image.Size, params.Image.ContentType, false)
		if err != nil {
			return fmt.Errorf("failed to upload profile image: %w", err)
		}
	}

	user := model.User{
		ID:           uuid.New(),
		FullName:     params.FullName,
		Email:        params.Email,
		PasswordHash: string(hash),
		PhoneNumber:  params.PhoneNumber,
		ProfileImg:   imageKey,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if imageKey != "" {
			runCleanup(ctx, s.logger, []cleanupStep{
				{name: "compensate profile image upload", run: func(ctx context.Context) error {
					return s.storage.Delete(ctx, imageKey)
				}},
			})
		}
		return err
	}

	s.logger.Info("Account service: account created", "user_id", user.ID)

	return nil
}

// Get returns the caller's own record with the hash excluded and the
// image key expanded to a public URL.
func (s *Account) Get(ctx context.Context, userID uuid.UUID) (model.UserView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.UserView{}, err
	}

	return model.UserView{
		ID:          user.ID,
		FullName:    user.FullName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		ProfileImg:  s.storage.PublicURL(user.ProfileImg),
	}, nil
}

// UpdateProfile changes the full name and phone number, optionally
// replacing the profile image with the upload-then-delete-old ordering.
func (s *Account) UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, phoneNumber string, image *model.ImageUpload) error {
	s.logger.Debug("Account service: updating profile", "user_id", userID)

	fields := validation.UserFields{
		FullName:    fullName,
		Email:       neutralEmail,
		Password:    neutralPassword,
		PhoneNumber: phoneNumber,
	}
	if image != nil {
		fields.ProfileImg = image.FileName
	}
	if err := s.validate.ValidateUser(fields); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	imageKey := user.ProfileImg
	if image != nil {
		imageKey = newImageKey("profiles", image.FileName)
		err := s.storage.Upload(ctx, imageKey, image.Reader, image.Size, image.ContentType, false)
		if err != nil {
			return fmt.Errorf("failed to upload profile image: %w", err)
		}
	}

	if err := s.users.UpdateProfile(ctx, userID, fullName, phoneNumber, imageKey); err != nil {
		if image != nil {
			newKey := imageKey
			runCleanup(ctx, s.logger, []cleanupStep{
				{name: "compensate profile image upload", run: func(ctx context.Context) error {
					return s.storage.Delete(ctx, newKey)
				}},
			})
		}
		return err
	}

	if image != nil && user.ProfileImg != "" {
		oldKey := user.ProfileImg
		runCleanup(ctx, s.logger, []cleanupStep{
			{name: "delete replaced profile image", run: func(ctx context.Context) error {
				return s.storage.Delete(ctx, oldKey)
			}},
		})
	}

	s.logger.Info("Account service: profile updated", "user_id", userID)

	return nil
}

// UpdatePassword re-hashes the password and overwrites the session token
// in the same transaction, so the previous token is rejected on the very
// next request. The new token is returned so the caller stays signed in.
func (s *Account) UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword, newRepeatPassword string) (string, error) {
	s.logger.Debug("Account service: updating password", "user_id", userID)

	if err := s.validate.ValidateUser(validation.UserFields{
		FullName: neutralName,
		Email:    neutralEmail,
		Password: newPassword,
	}); err != nil {
		return "", err
	}

	if newPassword != newRepeatPassword {
		return "", model.ErrPasswordMismatch
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	// atomic: a failed rotation leaves both old password and old token valid
	if err := s.users.RotateCredentials(ctx, userID, string(hash), token); err != nil {
		return "", err
	}

	s.logger.Info("Account service: password updated", "user_id", userID)

	return token, nil
}

// Delete removes the account with all owned rows in one transaction, then
// runs an ordered storage cleanup plan: receipt images (batched, with the
// shared directory entry), then the profile image. Cleanup failures are
// logged, never surfaced, since the relational state is already gone.
func (s *Account) Delete(ctx context.Context, userID uuid.UUID) error {
	s.logger.Debug("Account service: deleting account", "user_id", userID)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	receipts, err := s.receipts.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get receipts by user id: %w", err)
	}

	if err := s.purger.PurgeUser(ctx, userID); err != nil {
		return err
	}

	imageKeys := make([]string, 0, len(receipts))
	for _, receipt := range receipts {
		if receipt.ReceiptImg != "" {
			imageKeys = append(imageKeys, receipt.ReceiptImg)
		}
	}

	steps := make([]cleanupStep, 0, 2)
	if len(imageKeys) > 0 {
		steps = append(steps, cleanupStep{name: "delete receipt images", run: func(ctx context.Context) error {
			return s.storage.DeleteMany(ctx, imageKeys)
		}})
	}
	if user.ProfileImg != "" {
		steps = append(steps, cleanupStep{name: "delete profile image", run: func(ctx context.Context) error {
			return s.storage.Delete(ctx, user.ProfileImg)
		}})
	}
	runCleanup(ctx, s.logger, steps)

	s.logger.Info("Account service: account deleted", "user_id", userID)

	return nil
}
