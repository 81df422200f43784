package mozu

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

const (
	accountsPath    = "/api/commerce/customer/accounts/"
	addAccountsPath = accountsPath + "Add-Accounts"
)

// CustomerAccountResource maps the customer account endpoints
type CustomerAccountResource struct {
	client *Client
}

func NewCustomerAccountResource(client *Client) *CustomerAccountResource {
	return &CustomerAccountResource{client: client}
}

// AddAccounts creates accounts in bulk. Passwords are sent to the platform
// and never logged.
func (r *CustomerAccountResource) AddAccounts(ctx context.Context, accounts []CustomerAccountAndAuthInfo) (*CustomerAccountCollection, error) {
	logger := r.client.logger
	logger.Info("Adding customer accounts", zap.Int("account_count", len(accounts)))

	var collection CustomerAccountCollection
	if err := r.client.call(ctx, http.MethodPost, addAccountsPath, nil, accounts, &collection); err != nil {
		logger.Error("Add customer accounts failed", zap.Error(err))
		return nil, fmt.Errorf("add customer accounts: %w", err)
	}

	ids := make([]int, 0, len(collection.Items))
	for _, account := range collection.Items {
		ids = append(ids, account.ID)
	}
	logger.Info("Successfully added customer accounts",
		zap.Int("total_count", collection.TotalCount),
		zap.Ints("account_ids", ids))
	return &collection, nil
}

// GetAccount retrieves a single account by id
func (r *CustomerAccountResource) GetAccount(ctx context.Context, accountID int) (*CustomerAccount, error) {
	logger := r.client.logger
	logger.Info("Getting customer account", zap.Int("account_id", accountID))

	var account CustomerAccount
	if err := r.client.call(ctx, http.MethodGet, fmt.Sprintf("%s%d", accountsPath, accountID), nil, nil, &account); err != nil {
		logger.Error("Get customer account failed", zap.Int("account_id", accountID), zap.Error(err))
		return nil, fmt.Errorf("get customer account %d: %w", accountID, err)
	}

	logger.Info("Successfully retrieved customer account", zap.Int("account_id", account.ID))
	return &account, nil
}

// DeleteAccount deletes an account
func (r *CustomerAccountResource) DeleteAccount(ctx context.Context, accountID int) error {
	logger := r.client.logger
	logger.Info("Deleting customer account", zap.Int("account_id", accountID))

	if err := r.client.call(ctx, http.MethodDelete, fmt.Sprintf("%s%d", accountsPath, accountID), nil, nil, nil); err != nil {
		logger.Error("Delete customer account failed", zap.Int("account_id", accountID), zap.Error(err))
		return fmt.Errorf("delete customer account %d: %w", accountID, err)
	}

	logger.Info("Successfully deleted customer account", zap.Int("account_id", accountID))
	return nil
}
