package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"
)

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

const confirmationCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const confirmationLength = 8

// randomCode draws n chars from charset using crypto/rand + rand.Int
// (math/big) to avoid modulo bias.
func randomCode(n int, charset string) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid code length")
	}
	out := make([]byte, n)
	max := big.NewInt(int64(len(charset)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = charset[idx.Int64()]
	}
	return string(out), nil
}

// GenerateConfirmationNumber returns an uppercase A-Z0-9 code such as
// "AB4D93KF", used as the guest-facing proof of acceptance.
func GenerateConfirmationNumber() (string, error) {
	return randomCode(confirmationLength, confirmationCharset)
}
