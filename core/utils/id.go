package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const tokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateInviteLinkID returns the opaque id of an invite link. The id doubles as the shareable token.
func GenerateInviteLinkID() (string, error) {
	return gonanoid.Generate(tokenAlphabet, 21)
}

// GenerateInviteToken returns the secret token carried in email invite URLs.
func GenerateInviteToken(length int) (string, error) {
	return gonanoid.Generate(tokenAlphabet, length)
}
