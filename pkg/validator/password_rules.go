package validator

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password signup accepts.
const MinPasswordLength = 8

// StrongPassword expands to one rule per requirement so every missing
// character class is reported.
func StrongPassword(field, value string) []Rule {
	return []Rule{
		PasswordLength(field, value, MinPasswordLength),
		PasswordUppercase(field, value),
		PasswordLowercase(field, value),
		PasswordDigit(field, value),
		PasswordSpecialChar(field, value),
	}
}

func PasswordLength(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= n },
		Error: ValidationError{
			Field:   field,
			Code:    "password_length",
			Message: fmt.Sprintf("password must be at least %d characters long", n),
		},
	}
}

func PasswordUppercase(field, value string) Rule {
	return Rule{
		Check: func() bool { return containsFunc(value, unicode.IsUpper) },
		Error: ValidationError{
			Field:   field,
			Code:    "password_uppercase",
			Message: "password must contain at least one uppercase letter",
		},
	}
}

func PasswordLowercase(field, value string) Rule {
	return Rule{
		Check: func() bool { return containsFunc(value, unicode.IsLower) },
		Error: ValidationError{
			Field:   field,
			Code:    "password_lowercase",
			Message: "password must contain at least one lowercase letter",
		},
	}
}

func PasswordDigit(field, value string) Rule {
	return Rule{
		Check: func() bool { return containsFunc(value, unicode.IsDigit) },
		Error: ValidationError{
			Field:   field,
			Code:    "password_digit",
			Message: "password must contain at least one digit",
		},
	}
}

// PasswordSpecialChar accepts any character that is not a letter, digit or
// whitespace.
func PasswordSpecialChar(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return containsFunc(value, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
			})
		},
		Error: ValidationError{
			Field:   field,
			Code:    "password_special",
			Message: "password must contain at least one special character",
		},
	}
}

func containsFunc(s string, fn func(rune) bool) bool {
	for _, r := range s {
		if fn(r) {
			return true
		}
	}
	return false
}
