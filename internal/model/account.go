package model

// BankAccount maps an institution account identifier to operator-facing
// metadata from ledgerstitch.yaml.
type BankAccount struct {
	Identifier string // sort code + account number, or institution reference
	Name       string
	Bank       string
	LastFour   string
}
