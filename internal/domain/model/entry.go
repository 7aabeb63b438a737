package model

// Entry is a stored credential entry owned by exactly one user.
// SecretToken holds the encrypted secret as produced by the crypto package;
// the store never sees the plaintext. OrderRank defines the user's manual
// ordering; ranks need not be contiguous or unique, gaps are expected after
// deletes.
type Entry struct {
	ID           int64
	Owner        string
	Name         string
	Account      string
	SecretToken  string
	URL          string
	OrderRank    int64
	UsageCounter int64
}

// Field length limits enforced before any write.
const (
	MaxNameLen    = 64
	MaxAccountLen = 64
	MaxSecretLen  = 64
	MaxURLLen     = 2048
	MaxEmailLen   = 255
)
