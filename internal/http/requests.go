package http

import (
	"errors"
	"regexp"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var phonePattern = regexp.MustCompile(`^[0-9+\-\s]+$`)

// RegisterRequest son los campos del formulario multipart de registro.
// Los archivos adjuntos viajan aparte, en el campo "files".
type RegisterRequest struct {
	FirstName string `form:"firstName" json:"firstName"`
	LastName  string `form:"lastName" json:"lastName"`
	Email     string `form:"email" json:"email"`
	Phone     string `form:"phone" json:"phone"`
	Password  string `form:"password" json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(2, 50)),
		validation.Field(&r.LastName, validation.Required, validation.Length(2, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Phone, validation.Match(phonePattern)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100), validation.By(passwordComplexity)),
	)
}

// passwordComplexity exige al menos una minúscula, una mayúscula y un dígito.
func passwordComplexity(value interface{}) error {
	s, _ := value.(string)
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return errors.New("must contain a lowercase letter, an uppercase letter and a digit")
	}
	return nil
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

func (r VerifyOTPRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Otp, validation.Required, validation.Length(6, 6), is.Digit),
	)
}

type ResendOTPRequest struct {
	Email string `json:"email"`
}

func (r ResendOTPRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type CreateAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r CreateAdminRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100), validation.By(passwordComplexity)),
	)
}

type RejectRequest struct {
	Reason string `json:"reason"`
}
