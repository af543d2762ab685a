// Package bootstrap seeds a fresh database with demo accounts and a sample
// catalog. It is only run when INIT_DB is enabled and is safe to rerun:
// existing accounts are skipped and items are only added to an empty catalog.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

var seedAccounts = []domain.AccountDraft{
	{FirstName: "John", LastName: "Doe", Address: "123 Tech Street", Phone: "0708563876", Email: "admin@gmail.com", Password: "admin", Role: domain.RoleAdmin},
	{FirstName: "Jeffrey", LastName: "Babble", Address: "456 Flower Lane", Phone: "0903682439", Email: "user@gmail.com", Password: "password", Role: domain.RoleUser},
	{FirstName: "Sarah", LastName: "Lenon", Address: "789 Queen Road", Phone: "0908142756", Email: "cakeorder.user@gmail.com", Password: "123", Role: domain.RoleAdmin},
}

var seedItems = []ports.ItemInput{
	{Name: "Cream cupcake", Description: "A delicious cupcake with vanilla cream to brighten your day", Price: decimal.RequireFromString("21.00"), Category: "Cupcake", Available: true},
	{Name: "Chocolate cupcake", Description: "A delicious cupcake with chocolate toppings to sweeten your day", Price: decimal.RequireFromString("22.00"), Category: "Cupcake", Available: true},
	{Name: "Unicorn Cake", Description: "A colorfully decorated cake. Brings some magical vanilla and cream to your life", Price: decimal.RequireFromString("40.00"), Category: "Cake", Available: true},
	{Name: "Chocolate & Raspberry Cake", Description: "The ultimate combo. A creamy cake covered with sweet chocolate and fresh raspberries", Price: decimal.RequireFromString("35.00"), Category: "Cake", Available: true},
	{Name: "Lemon Flower Sandwich Biscuits", Description: "Two biscuits sandwiched together. The buttery flavor and zingy taste of lemon await you", Price: decimal.RequireFromString("10.00"), Category: "Biscuit", Available: true},
	{Name: "Fall Leaves Sugar Biscuits", Description: "Colorful biscuits with a sprinkle of sugar to sweeten the season", Price: decimal.RequireFromString("15.50"), Category: "Biscuit", Available: true},
	{Name: "Pink Strawberry Donut", Description: "A fluffy and pink donut with colorful sprinkles. Yummy", Price: decimal.RequireFromString("15.00"), Category: "Donut", Available: true},
	{Name: "Smiley Face Donut", Description: "Look how happy that donut is. Doesn't it put a smile on your face?", Price: decimal.RequireFromString("17.00"), Category: "Donut", Available: true},
}

type Seeder struct {
	accounts ports.AccountService
	catalog  ports.CatalogService
	log      zerolog.Logger
}

func NewSeeder(accounts ports.AccountService, catalog ports.CatalogService, log zerolog.Logger) *Seeder {
	return &Seeder{accounts: accounts, catalog: catalog, log: log}
}

// Seed creates the demo accounts and sample items.
func (s *Seeder) Seed(ctx context.Context) error {
	for _, draft := range seedAccounts {
		account, err := s.accounts.SignUp(ctx, draft)
		if errors.Is(err, domain.ErrEmailAlreadyTaken) {
			s.log.Debug().Str("email", draft.Email).Msg("seed account exists")
			continue
		}
		if err != nil {
			return fmt.Errorf("seed account %s: %w", draft.Email, err)
		}
		s.log.Info().Int64("account_id", account.ID).Str("role", string(account.Role)).Msg("seeded account")
	}

	existing, err := s.catalog.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if len(existing) > 0 {
		s.log.Info().Int("items", len(existing)).Msg("catalog not empty, skipping item seed")
		return nil
	}
	for _, in := range seedItems {
		if _, err := s.catalog.CreateItem(ctx, in); err != nil {
			return fmt.Errorf("seed item %q: %w", in.Name, err)
		}
	}
	s.log.Info().Int("items", len(seedItems)).Msg("seeded catalog")
	return nil
}
