package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword computes a salted, irreversible digest of the plaintext.
// The plaintext is never stored or logged; this is the only place a new
// digest is derived.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword recomputes and compares the digest. bcrypt's comparison is
// constant time with respect to the digest, so timing does not leak how much
// of the password matched.
func VerifyPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
