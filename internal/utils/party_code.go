package utils

import (
	"crypto/rand"
	"fmt"

	"github.com/kaosekai/companion-api/internal/constants"
)

const partyCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratePartyCode generates a random 6-character uppercase alphanumeric
// join code. Uniqueness is checked by the caller against the store.
func GeneratePartyCode() (string, error) {
	bytes := make([]byte, constants.PartyCodeLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	code := make([]byte, constants.PartyCodeLength)
	for i, b := range bytes {
		code[i] = partyCodeAlphabet[int(b)%len(partyCodeAlphabet)]
	}
	return string(code), nil
}
