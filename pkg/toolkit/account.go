package toolkit

import (
	"context"
	"fmt"

	"github.com/LatinWarrior/mozu-toolkit/pkg/mozu"
)

type AccountClient struct {
	resource mozu.AccountResource
}

func NewAccountClient(resource mozu.AccountResource) *AccountClient {
	return &AccountClient{resource: resource}
}

// AddAccounts creates every account in one call. Each entry needs a password
// and at least one of userName or emailAddress.
func (c *AccountClient) AddAccounts(ctx context.Context, accounts []mozu.CustomerAccountAndAuthInfo) (*mozu.CustomerAccountCollection, error) {
	if len(accounts) == 0 {
		return nil, invalid("accounts must not be empty")
	}
	for i := range accounts {
		if err := validateStruct(fmt.Sprintf("accounts[%d]", i), &accounts[i]); err != nil {
			return nil, err
		}
	}
	return c.resource.AddAccounts(ctx, accounts)
}

func (c *AccountClient) GetAccount(ctx context.Context, accountID int) (*mozu.CustomerAccount, error) {
	if err := requireID("accountID", accountID); err != nil {
		return nil, err
	}
	return c.resource.GetAccount(ctx, accountID)
}

func (c *AccountClient) DeleteAccount(ctx context.Context, accountID int) error {
	if err := requireID("accountID", accountID); err != nil {
		return err
	}
	return c.resource.DeleteAccount(ctx, accountID)
}
