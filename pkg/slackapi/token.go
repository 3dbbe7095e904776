package slackapi

import (
	"encoding/base64"
	"fmt"
)

// EncodeToken obfuscates a bot token for storage. This is reversible
// encoding, not encryption; the database itself is the trust boundary.
func EncodeToken(token string) string {
	return base64.StdEncoding.EncodeToString([]byte(token))
}

func DecodeToken(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode bot token: %w", err)
	}
	return string(raw), nil
}
