package web

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/crypto/hkdf"
)

// csrfKeyInfo separates the CSRF key from anything else derived from the same secret.
const csrfKeyInfo = "sportsdesk csrf v1"

// DeriveCSRFKey derives the 32-byte CSRF key from secret with HKDF-SHA256.
// An empty secret yields a random key, so tokens do not survive a restart.
// PRE: none
// POST: Returns exactly 32 bytes
func DeriveCSRFKey(secret string) ([]byte, error) {
	key := make([]byte, 32)
	if secret == "" {
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate csrf key: %w", err)
		}
		slog.Warn("csrf_key_random", "hint", "set SPORTSDESK_SECRET to keep form tokens valid across restarts")
		return key, nil
	}
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(csrfKeyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive csrf key: %w", err)
	}
	return key, nil
}
