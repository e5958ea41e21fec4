package identity

import (
	"fmt"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// AllowedEmailDomains restricts signup to consumer mail providers. Override
// before wiring the handlers to open registration up.
var AllowedEmailDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"outlook.com": true,
}

// DefaultPhoneRegion is used to parse phone numbers given without a country
// prefix.
var DefaultPhoneRegion = "US"

func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case *string:
		if v != nil {
			return *v
		}
	}
	return ""
}

// ValidateEmailDomain checks the address against AllowedEmailDomains.
func ValidateEmailDomain(value any) error {
	email := stringValue(value)
	if email == "" {
		return nil
	}

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return fmt.Errorf("invalid email format: missing '@'")
	}

	domain := strings.ToLower(email[at+1:])
	if !AllowedEmailDomains[domain] {
		return fmt.Errorf("email domain %q is not allowed", domain)
	}

	return nil
}

// ValidatePasswordComplexity enforces the minimum password shape: at least 8
// characters with an uppercase letter, a lowercase letter, a digit, and a
// special character.
func ValidatePasswordComplexity(value any) error {
	password := stringValue(value)

	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("password must contain at least one uppercase letter")
	case !hasLower:
		return fmt.Errorf("password must contain at least one lowercase letter")
	case !hasDigit:
		return fmt.Errorf("password must contain at least one digit")
	case !hasSpecial:
		return fmt.Errorf("password must contain at least one special character")
	}

	return nil
}

// ValidatePhoneNumber parses an optional phone number in DefaultPhoneRegion.
func ValidatePhoneNumber(value any) error {
	phone := stringValue(value)
	if phone == "" {
		return nil
	}

	num, err := phonenumbers.Parse(phone, DefaultPhoneRegion)
	if err != nil {
		return fmt.Errorf("invalid phone number: %v", err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return fmt.Errorf("phone number is not valid")
	}

	return nil
}

func validateRegisterAccount(m RegisterAccountMessage) error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email,
			validation.Required,
			is.Email,
			validation.By(ValidateEmailDomain),
		),
		validation.Field(&m.Password,
			validation.Required,
			validation.By(ValidatePasswordComplexity),
		),
		validation.Field(&m.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&m.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&m.Phone, validation.By(ValidatePhoneNumber)),
	)
}

func validateNewPassword(password string) error {
	return validation.Validate(password,
		validation.Required,
		validation.By(ValidatePasswordComplexity),
	)
}

func validateProfileUpdate(m UpdateProfileMessage) error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.FirstName, validation.Length(1, 200)),
		validation.Field(&m.LastName, validation.Length(1, 200)),
		validation.Field(&m.Phone, validation.By(ValidatePhoneNumber)),
		validation.Field(&m.NewEmail,
			is.Email,
			validation.By(ValidateEmailDomain),
		),
	)
}
