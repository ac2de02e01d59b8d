package booking

import (
	"crypto/rand"
	"errors"
	"math/big"

	"airline/src/models"

	"gorm.io/gorm"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8

	// maxCodeAttempts bounds the regenerate-on-collision loop. The code
	// space is 36^8, so more than one retry already means something is
	// badly wrong with the random source.
	maxCodeAttempts = 5
)

// errCodeCollision signals that a freshly generated code lost the race
// against the unique index; the caller regenerates and retries.
var errCodeCollision = errors.New("reservation code collision")

// GenerateCode returns an 8-character code from {A-Z, 0-9} drawn from a
// cryptographically secure source. Codes are passenger-facing and must
// not be guessable or enumerable.
func GenerateCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// codeExists checks the candidate against every code ever issued,
// including codes held by cancelled reservations. The unique index on
// reservations.code is the authority; this pre-check keeps the common
// path from burning a failed insert.
func codeExists(tx *gorm.DB, code string) (bool, error) {
	var count int64
	err := tx.
		Model(&models.Reservation{}).
		Where("code = ?", code).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
