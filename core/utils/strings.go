package utils

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

// NormalizeEmail trims and lower-cases an address for storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// EmailsMatch compares two addresses case-insensitively, ignoring surrounding whitespace.
func EmailsMatch(a, b string) bool {
	return NormalizeEmail(a) != "" && NormalizeEmail(a) == NormalizeEmail(b)
}

func ToUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

func ToString(id uuid.UUID) string {
	return id.String()
}

func StringPtr(s string) *string {
	return &s
}
