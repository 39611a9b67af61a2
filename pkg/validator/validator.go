package validator

import (
	"net/mail"
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

func ValidateEmail(email string) bool {
	if email == "" {
		return false
	}

	// net/mail accepts display names and odd local parts, the regex narrows it
	// down to a bare address.
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}

	return emailRegex.MatchString(strings.ToLower(email))
}

func ValidateRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Errors collects messages per field, in the shape returned to API clients.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Require adds "The <field> field is required." when value is blank and
// reports whether the value was present.
func (e Errors) Require(field, value string) bool {
	if !ValidateRequired(value) {
		e.Add(field, "The "+strings.ReplaceAll(field, "_", " ")+" field is required.")
		return false
	}
	return true
}

func (e Errors) Email(field, value string) {
	if e.Require(field, value) && !ValidateEmail(value) {
		e.Add(field, "The "+field+" must be a valid email address.")
	}
}

func (e Errors) Empty() bool {
	return len(e) == 0
}
