package auth

import "golang.org/x/crypto/bcrypt"

// MinPasswordLength is enforced on sign-up.
const MinPasswordLength = 6

type hasher struct {
	cost int
}

func newHasher(cost int) hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return hasher{cost: cost}
}

func (h hasher) hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(bytes), err
}

// compare returns nil on a match.
func (h hasher) compare(hashed, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}
