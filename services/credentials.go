package services

import (
	"fmt"

	"facturacion-backend/models"
	"facturacion-backend/utils"
)

// IdentityLookup finds operators by username. The server seeds a single
// record today; a database-backed lookup can replace it without touching
// the login flow.
type IdentityLookup interface {
	FindOperator(username string) (models.Operator, bool)
}

// StaticIdentities is an in-memory IdentityLookup.
type StaticIdentities map[string]models.Operator

func NewStaticIdentities(operators ...models.Operator) StaticIdentities {
	ids := make(StaticIdentities, len(operators))
	for _, op := range operators {
		ids[op.Username] = op
	}
	return ids
}

func (s StaticIdentities) FindOperator(username string) (models.Operator, bool) {
	op, ok := s[username]
	return op, ok
}

type CredentialStore struct {
	identities IdentityLookup
	dummyHash  string
}

// NewCredentialStore hashes a throwaway password at the given bcrypt cost.
// Unknown usernames are checked against it so they take as long as a wrong
// password.
func NewCredentialStore(identities IdentityLookup, cost int) (*CredentialStore, error) {
	dummy, err := utils.HashPassword("facturacion-no-such-operator", cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare credential store: %w", err)
	}
	return &CredentialStore{identities: identities, dummyHash: dummy}, nil
}

// VerifyCredentials never says which of username or password was wrong.
func (s *CredentialStore) VerifyCredentials(username, password string) bool {
	op, ok := s.identities.FindOperator(username)
	if !ok {
		utils.CheckPasswordHash(password, s.dummyHash)
		return false
	}
	return utils.CheckPasswordHash(password, op.PasswordHash)
}
