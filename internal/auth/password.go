package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier checks a plaintext password against a stored
// credential. Implementations must take the same time for match and
// mismatch.
type CredentialVerifier interface {
	Verify(stored, password string) bool
}

// VerifierFor selects the verification strategy from the stored
// credential's format tag. Bcrypt hashes carry a "$2..$" prefix; rows
// migrated from the legacy system hold the raw credential and are
// compared directly. The selection is explicit so a new stored format
// fails loudly instead of being guessed at.
func VerifierFor(stored string) CredentialVerifier {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcryptVerifier{}
	}
	return legacyVerifier{}
}

type bcryptVerifier struct{}

func (bcryptVerifier) Verify(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// legacyVerifier compares migrated plaintext credentials in constant time.
type legacyVerifier struct{}

func (legacyVerifier) Verify(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// HashPassword hashes a plaintext password with bcrypt. All credentials
// written by this system use this format; the legacy format is read-only.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
