package config

import (
	"regexp"
	"strings"
)

// RedactedMask replaces secrets in any text shown to users.
const RedactedMask = "***"

// RedactSecret replaces every literal occurrence of secret in text.
func RedactSecret(text, secret string) string {
	if secret == "" {
		return text
	}
	return regexp.MustCompile(regexp.QuoteMeta(secret)).ReplaceAllLiteralString(text, RedactedMask)
}

// MaskAPIKey keeps the prefix and the last four characters.
//
//	hak_tenant_abc123xyz -> hak_***3xyz
func MaskAPIKey(apiKey string) string {
	if len(apiKey) < 8 {
		return RedactedMask
	}
	return apiKey[:4] + RedactedMask + apiKey[len(apiKey)-4:]
}

// MaskEmail keeps the first character and the domain.
//
//	dev@company.com -> d***@company.com
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return RedactedMask
	}
	return email[:1] + RedactedMask + email[at:]
}
