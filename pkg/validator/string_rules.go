package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Required fails on empty or whitespace-only values.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Code: "required", Message: "field is required"},
	}
}

// MinLen counts runes, not bytes.
func MinLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= n },
		Error: ValidationError{
			Field:   field,
			Code:    "min_length",
			Message: fmt.Sprintf("must be at least %d characters long", n),
		},
	}
}

// MaxLen counts runes, not bytes.
func MaxLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= n },
		Error: ValidationError{
			Field:   field,
			Code:    "max_length",
			Message: fmt.Sprintf("must be at most %d characters long", n),
		},
	}
}

// Equal fails when value differs from other; message names what it must match.
func Equal(field, value, other, message string) Rule {
	return Rule{
		Check: func() bool { return value == other },
		Error: ValidationError{Field: field, Code: "mismatch", Message: message},
	}
}
