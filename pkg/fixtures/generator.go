// Package fixtures creates throwaway customer data on a tenant and removes it
// again. Every id it creates is written to a Ledger before it is used, so an
// interrupted run can still be cleaned up.
package fixtures

import (
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/LatinWarrior/mozu-toolkit/pkg/mozu"
)

// DefaultPassword satisfies the platform's password policy.
const DefaultPassword = "p@$$w0rd1"

// Generator builds random segments and accounts. It is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// NewGenerator returns a generator; a zero seed picks a random one.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Suffix returns a lowercase letter followed by six digits, e.g. "k482913".
func (g *Generator) Suffix() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.suffixLocked()
}

func (g *Generator) suffixLocked() string {
	letter := rune('a' + g.faker.Number(0, 24))
	return fmt.Sprintf("%c%d", letter, g.faker.Number(100000, 999999))
}

// Segment returns an unsaved segment with a random code.
func (g *Generator) Segment() *mozu.CustomerSegment {
	suffix := g.Suffix()
	return &mozu.CustomerSegment{
		Code:        "Code_" + suffix,
		Name:        "Name _" + suffix,
		Description: "Some description for suffix " + suffix,
	}
}

// Accounts returns n unsaved accounts paired with password.
func (g *Generator) Accounts(n int, password string) []mozu.CustomerAccountAndAuthInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	accounts := make([]mozu.CustomerAccountAndAuthInfo, 0, n)
	for i := 0; i < n; i++ {
		accounts = append(accounts, mozu.CustomerAccountAndAuthInfo{
			Account: &mozu.CustomerAccount{
				FirstName:    g.faker.FirstName(),
				LastName:     g.faker.LastName(),
				EmailAddress: g.faker.Email(),
				UserName:     fmt.Sprintf("%s_%d", g.faker.LoremIpsumWord(), g.faker.Number(100000, 999999)),
			},
			Password: password,
		})
	}
	return accounts
}
