package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/LatinWarrior/mozu-toolkit/pkg/fixtures"
	"github.com/LatinWarrior/mozu-toolkit/pkg/mozu"
)

func cmdAccounts(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: toolkit accounts <add|get|delete>")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sub, rest := args[0], args[1:]
	switch sub {
	case "add":
		return a.accountsAdd(ctx, rest)
	case "get":
		return a.accountsGet(ctx, rest)
	case "delete":
		return a.accountsDelete(ctx, rest)
	default:
		return fmt.Errorf("unknown accounts command: %s", sub)
	}
}

func (a *app) accountsAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("accounts add", flag.ExitOnError)
	userName := fs.String("username", "", "Login name")
	email := fs.String("email", "", "Email address")
	firstName := fs.String("first", "", "First name")
	lastName := fs.String("last", "", "Last name")
	password := fs.String("password", fixtures.DefaultPassword, "Initial password")
	generate := fs.Int("generate", 0, "Create N random accounts instead")
	fs.Parse(args)

	var accounts []mozu.CustomerAccountAndAuthInfo
	if *generate > 0 {
		accounts = fixtures.NewGenerator(uint64(time.Now().UnixNano())).Accounts(*generate, *password)
	} else {
		accounts = []mozu.CustomerAccountAndAuthInfo{{
			Account: &mozu.CustomerAccount{
				UserName:     *userName,
				EmailAddress: *email,
				FirstName:    *firstName,
				LastName:     *lastName,
				IsActive:     true,
			},
			Password: *password,
		}}
	}

	created, err := a.accounts.AddAccounts(ctx, accounts)
	if err != nil {
		return err
	}
	return printJSON(created)
}

func (a *app) accountsGet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("accounts get", flag.ExitOnError)
	fs.Parse(args)

	id, err := singleID(fs, "account-id")
	if err != nil {
		return err
	}
	account, err := a.accounts.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(account)
}

func (a *app) accountsDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("accounts delete", flag.ExitOnError)
	fs.Parse(args)

	id, err := singleID(fs, "account-id")
	if err != nil {
		return err
	}
	if err := a.accounts.DeleteAccount(ctx, id); err != nil {
		return err
	}
	return printJSON(map[string]int{"deleted": id})
}
