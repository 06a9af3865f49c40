// Package accounts provides in-memory lookup over the bank accounts named
// in ledgerstitch.yaml.
package accounts

import (
	"github.com/ledgerstitch-dev/ledgerstitch/internal/config"
	"github.com/ledgerstitch-dev/ledgerstitch/internal/model"
)

// Service resolves institution account identifiers to display metadata.
type Service struct {
	accounts     []model.BankAccount
	byIdentifier map[string]model.BankAccount
}

// NewService creates a Service from configured accounts.
func NewService(cfgAccounts []config.BankAccount) *Service {
	accts := make([]model.BankAccount, len(cfgAccounts))
	byID := make(map[string]model.BankAccount, len(cfgAccounts))
	for i, a := range cfgAccounts {
		acct := model.BankAccount{
			Identifier: a.Identifier,
			Name:       a.Name,
			Bank:       a.Bank,
			LastFour:   a.LastFour,
		}
		accts[i] = acct
		byID[acct.Identifier] = acct
	}
	return &Service{accounts: accts, byIdentifier: byID}
}

// All returns all configured accounts.
func (s *Service) All() []model.BankAccount {
	return s.accounts
}

// Get returns an account by identifier.
func (s *Service) Get(identifier string) (model.BankAccount, bool) {
	a, ok := s.byIdentifier[identifier]
	return a, ok
}

// DisplayName returns the configured name for an identifier, falling back
// to the identifier itself for unconfigured accounts.
func (s *Service) DisplayName(identifier string) string {
	if a, ok := s.byIdentifier[identifier]; ok && a.Name != "" {
		return a.Name
	}
	return identifier
}
