package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// AccessTokenBytes is the amount of randomness in an access token.
const AccessTokenBytes = 128

// TokenGenerator issues opaque bearer tokens.
type TokenGenerator interface {
	NewToken() (string, error)
}

// RandomTokenGenerator draws tokens from crypto/rand and hex-encodes them.
type RandomTokenGenerator struct{}

func (RandomTokenGenerator) NewToken() (string, error) {
	buf := make([]byte, AccessTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
