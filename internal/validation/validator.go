package validation

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/recibo/receipts-server/internal/model"
)

// Validator checks field formats for user and receipt payloads. The
// services treat it as a pluggable capability; the rules here mirror the
// public API contract (accented alphanumerics, digit-only phone numbers,
// three-letter currency badges, image extension whitelist).
type Validator struct {
	validate *validator.Validate
}

var (
	textRe     = regexp.MustCompile(`^[A-Za-z0-9 áéíóúÁÉÍÓÚñÑ]*$`)
	passwordRe = regexp.MustCompile(`^[A-Za-z0-9 áéíóúÁÉÍÓÚñÑ!#]*$`)
	phoneRe    = regexp.MustCompile(`^[0-9]*$`)
	badgeRe    = regexp.MustCompile(`^[A-Za-z]{3}$`)
	imageExtRe = regexp.MustCompile(`\.(jpg|jpeg|png|gif|tiff)$`)
)

// New creates a Validator with the custom format rules registered.
func New() *Validator {
	v := validator.New()

	mustRegister(v, "text_chars", textRe)
	mustRegister(v, "password_chars", passwordRe)
	mustRegister(v, "phone_chars", phoneRe)
	mustRegister(v, "badge", badgeRe)
	mustRegister(v, "image_ext", imageExtRe)

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register validation %q: %v", tag, err))
	}
}

// UserFields is the validated subset of a user payload. Callers that only
// change some fields pass neutral placeholders for the rest.
type UserFields struct {
	FullName    string `validate:"required,text_chars"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required,password_chars"`
	PhoneNumber string `validate:"omitempty,phone_chars"`
	ProfileImg  string `validate:"omitempty,image_ext"`
}

// ReceiptFields is the validated subset of a receipt payload.
type ReceiptFields struct {
	Provider    string `validate:"required,text_chars"`
	Title       string `validate:"required,text_chars"`
	ReceiptType string `validate:"omitempty,text_chars"`
	Comments    string `validate:"omitempty,text_chars"`
	Badge       string `validate:"omitempty,badge"`
	ReceiptImg  string `validate:"omitempty,image_ext"`
}

var userMessages = map[string]string{
	"FullName":    "The fullName was not provided or does not have a valid format",
	"Email":       "The email was not provided or does not have a valid format",
	"Password":    "The password was not provided or does not have a valid format",
	"PhoneNumber": "The phoneNumber does not have a valid format",
	"ProfileImg":  "The profileImg extension is not valid (.jpg, .jpeg, .png, .gif, .tiff)",
}

var receiptMessages = map[string]string{
	"Provider":    "The provider was not provided or does not have a valid format",
	"Title":       "The title was not provided or does not have a valid format",
	"ReceiptType": "The receiptType does not have a valid format",
	"Comments":    "The comments does not have a valid format",
	"Badge":       "The badge does not have a valid format (MXN, USD, EUR)",
	"ReceiptImg":  "The receiptImg extension is not valid (.jpg, .jpeg, .png, .gif, .tiff)",
}

// ValidateUser checks user fields and returns a model.ValidationError
// listing every failed field.
func (v *Validator) ValidateUser(fields UserFields) error {
	return v.toValidationError(v.validate.Struct(fields), userMessages)
}

// ValidateReceipt checks receipt fields and returns a
// model.ValidationError listing every failed field.
func (v *Validator) ValidateReceipt(fields ReceiptFields) error {
	return v.toValidationError(v.validate.Struct(fields), receiptMessages)
}

func (v *Validator) toValidationError(err error, messages map[string]string) error {
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("failed to validate fields: %w", err)
	}

	out := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		msg, ok := messages[fieldErr.Field()]
		if !ok {
			msg = fmt.Sprintf("The %s does not have a valid format", fieldErr.Field())
		}
		out = append(out, msg)
	}

	return model.NewValidationError(out...)
}
