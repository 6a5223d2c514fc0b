package cancellation

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// MintToken generates a single-use cancellation token for public
// registrations. 32 bytes of entropy, URL-safe so it can ship in a link.
func MintToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to mint cancel token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
