package identity_test

import (
	"testing"

	identity "github.com/markavo/go-identity"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmailDomain(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Gmail allowed", "user@gmail.com", false},
		{"Yahoo allowed", "user@yahoo.com", false},
		{"Outlook allowed", "user@outlook.com", false},
		{"Uppercase domain allowed", "user@GMAIL.COM", false},
		{"Corporate domain rejected", "user@example.com", true},
		{"Missing at-sign rejected", "usergmail.com", true},
		{"Empty value passes through", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := identity.ValidateEmailDomain(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePasswordComplexity(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Meets all requirements", "Str0ng!pass", false},
		{"Too short", "S1!a", true},
		{"No uppercase", "weak1pass!", true},
		{"No lowercase", "WEAK1PASS!", true},
		{"No digit", "WeakPass!!", true},
		{"No special character", "WeakPass123", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := identity.ValidatePasswordComplexity(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{"Valid US number", "+1 212 555 0123", false},
		{"Valid without prefix", "(212) 555-0123", false},
		{"Garbage", "not-a-phone", true},
		{"Too short", "12345", true},
		{"Empty is optional", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := identity.ValidatePhoneNumber(tt.phone)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@gmail.com", identity.NormalizeEmail("  User@Gmail.COM "))
	assert.Equal(t, "a@yahoo.com", identity.NormalizeEmail("a@yahoo.com"))
	assert.Equal(t, "", identity.NormalizeEmail("   "))
}
