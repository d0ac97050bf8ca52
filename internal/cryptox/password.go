// Package cryptox holds the password hashing used by the authorization policy.
//
// Passwords are stretched with argon2id under a per-password random salt and
// stored as "hex(key).hex(salt)". Verification recomputes the key with the
// stored salt and compares in constant time.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

var errRandom = fmt.Errorf("cryptox: random source failed: %w", common.ErrorInternal)

// DeriveKey stretches password with salt using argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// HashPassword returns the storable encoding of password under a fresh salt.
// Hashing the same password twice yields different encodings.
func HashPassword(password string) (string, error) {
	salt := common.GenerateRandByteArray(saltSize)
	if salt == nil {
		return "", errRandom
	}
	key := DeriveKey([]byte(password), salt)
	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// ComparePasswords reports whether supplied matches the stored encoding.
// A malformed encoding never matches.
func ComparePasswords(supplied string, stored string) bool {
	keyHex, saltHex, ok := strings.Cut(stored, ".")
	if !ok {
		return false
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != argonKeyLen {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return false
	}
	candidate := DeriveKey([]byte(supplied), salt)
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

// BurnPasswordCheck spends the same work as a real verification. It is used on
// the unknown-user path so response timing does not reveal whether the user exists.
func BurnPasswordCheck(supplied string) {
	_ = DeriveKey([]byte(supplied), make([]byte, saltSize))
}
