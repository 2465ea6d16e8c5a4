package session

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// documentNumberPattern matches a national document number, 7 or 8 digits.
var documentNumberPattern = regexp.MustCompile(`^\d{7,8}$`)

// defaultPhoneRegion is used when a phone number omits the country prefix.
const defaultPhoneRegion = "AR"

// LoginPayload carries a sign-in attempt. Remember opts into storing
// the document number for prefilling the next sign-in form.
type LoginPayload struct {
	DocumentNumber string `json:"documentNumber"`
	Password       string `json:"password"`
	Remember       bool   `json:"remember,omitempty"`
}

func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.DocumentNumber,
			validation.Required,
			validation.Match(documentNumberPattern),
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// RegisterPayload carries the profile fields a new professional
// registers with.
type RegisterPayload struct {
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	DocumentNumber string   `json:"documentNumber"`
	Password       string   `json:"password"`
	Role           UserRole `json:"role"`
}

func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.Required, validation.By(validatePhone)),
		validation.Field(&r.DocumentNumber, validation.Required, validation.Match(documentNumberPattern)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Role, validation.Required, validation.By(validateRole)),
	)
}

func validatePhone(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	num, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return errors.New("must be a valid phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}
	return nil
}

func validateRole(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	if !IsValidRole(UserRole(raw)) {
		return errors.New("must be a valid role")
	}
	return nil
}
