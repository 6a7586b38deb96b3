package validator

import (
	"regexp"
	"strings"
)

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRegex = regexp.MustCompile(`^[a-z0-9_.]{3,20}$`)
)

// ValidEmail accepts something@domain.tld with no whitespace and a single @
// on each side of the domain dot.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool { return emailRegex.MatchString(value) },
		Error: ValidationError{Field: field, Code: "email", Message: "must be a valid email address"},
	}
}

// ValidUsername expects an already normalized (lowercased) value: 3 to 20
// characters from a-z, 0-9, underscore and period, not starting or ending
// with a period.
func ValidUsername(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return usernameRegex.MatchString(value) &&
				!strings.HasPrefix(value, ".") &&
				!strings.HasSuffix(value, ".")
		},
		Error: ValidationError{
			Field:   field,
			Code:    "username",
			Message: "must be 3-20 characters of letters, numbers, underscores or periods, not starting or ending with a period",
		},
	}
}
