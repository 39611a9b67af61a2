package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@x.com", true},
		{"alice.smith+tag@example.co.uk", true},
		{"", false},
		{"no-at-sign", false},
		{"Alice <a@x.com>", false},
		{"a@x", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.email))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}

func TestErrors(t *testing.T) {
	errs := Errors{}
	errs.Require("name", "  ")
	errs.Email("email", "broken")
	errs.Require("password_confirmation", "")

	assert.False(t, errs.Empty())
	assert.Equal(t, []string{"The name field is required."}, errs["name"])
	assert.Equal(t, []string{"The email must be a valid email address."}, errs["email"])
	assert.Equal(t, []string{"The password confirmation field is required."}, errs["password_confirmation"])

	ok := Errors{}
	ok.Email("email", "a@x.com")
	assert.True(t, ok.Empty())
}
