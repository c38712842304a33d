package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/peterldowns/testy/check"

	"auction-marketplace/internal/domain"
)

func TestPasswordHashAndCompare(t *testing.T) {
	hasher := NewPasswordHasher(4)

	hash, err := hasher.Hash("hunter2-secret")
	check.Nil(t, err)
	check.NotEqual(t, "hunter2-secret", hash)
	check.True(t, strings.HasPrefix(hash, "$2"))

	check.Nil(t, hasher.Compare(hash, "hunter2-secret"))
}

func TestPasswordCompareMismatch(t *testing.T) {
	hasher := NewPasswordHasher(4)

	hash, err := hasher.Hash("hunter2-secret")
	check.Nil(t, err)

	err = hasher.Compare(hash, "wrong-password")
	check.True(t, errors.Is(err, domain.ErrInvalidCredentials))

	// A malformed stored hash is indistinguishable from a mismatch.
	err = hasher.Compare("not-a-bcrypt-hash", "hunter2-secret")
	check.True(t, errors.Is(err, domain.ErrInvalidCredentials))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	hasher := NewPasswordHasher(4)

	first, err := hasher.Hash("same-password")
	check.Nil(t, err)
	second, err := hasher.Hash("same-password")
	check.Nil(t, err)

	check.NotEqual(t, first, second)
}

func TestPasswordHasherClampsCost(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default instead of
	// failing at hash time.
	hasher := NewPasswordHasher(99)

	hash, err := hasher.Hash("hunter2-secret")
	check.Nil(t, err)
	check.Nil(t, hasher.Compare(hash, "hunter2-secret"))
}
