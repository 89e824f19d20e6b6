package auth

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier checks a submitted password against a stored hash across
// the three schemes that exist in the user table: the legacy unsalted MD5
// digest, the interim HMAC-keyed bcrypt hash, and plain bcrypt. Supporting
// all three lets old accounts sign in without a bulk password reset.
type PasswordVerifier struct {
	legacySecret string
}

func NewPasswordVerifier(legacySecret string) *PasswordVerifier {
	return &PasswordVerifier{legacySecret: legacySecret}
}

// Verify reports whether password matches stored. It never returns an error:
// any failure inside a verification scheme counts as a non-match.
//
// Order matters. A 32-hex-character hash is always treated as a legacy MD5
// digest, even when a legacy secret is configured. Otherwise the keyed scheme
// is tried first (when configured), then plain bcrypt.
func (v *PasswordVerifier) Verify(password, stored string) bool {
	if stored == "" {
		return false
	}

	if isLegacyDigest(stored) {
		sum := md5.Sum([]byte(password))
		digest := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(digest), []byte(stored)) == 1
	}

	if v.legacySecret != "" {
		keyed := keyedDigest(password, v.legacySecret)
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(keyed)) == nil {
			return true
		}
	}

	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// HashPassword hashes a password with bcrypt for new and reset credentials.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func keyedDigest(password, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

func isLegacyDigest(stored string) bool {
	if len(stored) != 32 {
		return false
	}
	for _, c := range stored {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
