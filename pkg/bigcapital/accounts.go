package bigcapital

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

const (
	accountsPath = "/api/accounts"
	taxRatesPath = "/api/settings/tax-rates"
)

// accountService implements AccountService
type accountService struct {
	client *Client
}

// List retrieves all accounts
func (s *accountService) List(ctx context.Context) ([]*Account, error) {
	var accounts []*Account
	if _, err := s.client.getList(ctx, accountsPath, "accounts", &accounts); err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}
	return accounts, nil
}

// Get retrieves a single account
func (s *accountService) Get(ctx context.Context, accountID int64) (*Account, error) {
	var account Account
	if err := s.client.getEnveloped(ctx, resourcePath(accountsPath, accountID), "account", &account); err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	return &account, nil
}

// TaxRates retrieves configured tax rates
func (s *accountService) TaxRates(ctx context.Context) ([]*TaxRate, error) {
	var raw json.RawMessage
	if _, err := s.client.get(ctx, taxRatesPath, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to list tax rates")
	}

	var rates []*TaxRate
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &rates); err != nil {
			return nil, errors.Wrap(err, "failed to decode tax rates")
		}
		return rates, nil
	}

	var envelope struct {
		Data     []*TaxRate `json:"data"`
		TaxRates []*TaxRate `json:"tax_rates"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Wrap(err, "failed to decode tax rates")
	}
	if envelope.TaxRates != nil {
		return envelope.TaxRates, nil
	}
	return envelope.Data, nil
}
