package models

// Operator is the identity allowed to use the API. Only the bcrypt hash of the
// password is ever held.
type Operator struct {
	Username     string
	PasswordHash string
}
