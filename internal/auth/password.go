// Package auth holds the credential and session machinery: bcrypt password
// hashing, signed session cookies backed by a server-side session store, and
// the HTTP middleware that resolves the cookie into a user id.
//
// PASSWORDS:
// Passwords are never stored. bcrypt produces a self-describing string
//
//	$2a$12$<22-char salt><31-char hash>
//
// that embeds its own salt and cost, so a single TEXT column is enough and
// CompareHashAndPassword needs nothing else to check a login attempt.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is bcrypt's input limit. Longer inputs would be silently
// truncated by the library, so Hash rejects them instead.
const MaxPasswordBytes = 72

// defaultCost is the bcrypt work factor used outside tests (~250ms per hash).
const defaultCost = 12

// ErrPasswordMismatch is returned by Verify when the password is wrong.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// PasswordService hashes and verifies passwords. The cost is a field so tests
// can run at bcrypt.MinCost.
type PasswordService struct {
	cost      int
	dummyHash []byte
}

// NewPasswordService returns a PasswordService at the production cost.
func NewPasswordService() *PasswordService {
	return newPasswordServiceWithCost(defaultCost)
}

// NewPasswordServiceForTest returns a PasswordService with the given cost.
// Other packages' tests pass bcrypt.MinCost to keep hashing fast.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return newPasswordServiceWithCost(cost)
}

func newPasswordServiceWithCost(cost int) *PasswordService {
	// The dummy hash lets VerifyMissing spend the same time as a real
	// comparison. An error here only means cost is out of range, which
	// Hash will report on first use.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("affirmations-dummy-password"), cost)
	return &PasswordService{cost: cost, dummyHash: dummy}
}

// Hash returns the bcrypt hash of plaintext.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", fmt.Errorf("auth: password must be %d bytes or fewer", MaxPasswordBytes)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks plaintext against a stored hash in constant time.
// A wrong password returns ErrPasswordMismatch.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}

// VerifyMissing burns one bcrypt comparison for a login whose username does
// not exist, so response timing does not reveal which usernames are taken.
// It always returns ErrPasswordMismatch.
func (p *PasswordService) VerifyMissing(plaintext string) error {
	_ = bcrypt.CompareHashAndPassword(p.dummyHash, []byte(plaintext))
	return ErrPasswordMismatch
}
