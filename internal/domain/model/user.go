package model

// User is a registered vault owner, keyed by trimmed email.
// PasswordHash is a one-way digest of the login password, never the
// password itself.
type User struct {
	Email        string
	PasswordHash string
}
