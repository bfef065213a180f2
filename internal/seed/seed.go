// Package seed loads the starter catalog and accounts into an empty database.
package seed

import (
	"context"
	"fmt"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/repository"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/services"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type account struct {
	user     domain.User
	password string
}

var accounts = []account{
	{
		user: domain.User{
			Username:   "admin",
			Email:      "admin@phonegear.com",
			FirstName:  "Admin",
			LastName:   "User",
			Address:    "123 Admin Street",
			City:       "Admin City",
			PostalCode: "12345",
			Phone:      "123-456-7890",
			IsAdmin:    true,
		},
		password: "admin123",
	},
	{
		user: domain.User{
			Username:   "user",
			Email:      "user@example.com",
			FirstName:  "Regular",
			LastName:   "User",
			Address:    "456 User Street",
			City:       "User City",
			PostalCode: "54321",
			Phone:      "987-654-3210",
		},
		password: "user123",
	},
}

var categories = []domain.Category{
	{
		Name:        "Coques et protections",
		Slug:        "coques-protections",
		Description: "Protégez votre téléphone avec nos coques et protections de qualité",
		ImageURL:    "https://images.unsplash.com/photo-1600086427699-bfffb4793d29?auto=format&fit=crop&w=400&q=80",
	},
	{
		Name:        "Chargeurs et câbles",
		Slug:        "chargeurs-cables",
		Description: "Rechargez votre téléphone rapidement avec nos chargeurs et câbles",
		ImageURL:    "https://images.unsplash.com/photo-1609692814858-f7cd2f0afa4f?auto=format&fit=crop&w=400&q=80",
	},
	{
		Name:        "Écouteurs et audio",
		Slug:        "ecouteurs-audio",
		Description: "Profitez d'une qualité audio exceptionnelle avec nos écouteurs",
		ImageURL:    "https://images.unsplash.com/photo-1572536147248-ac59a8abfa4b?auto=format&fit=crop&w=400&q=80",
	},
	{
		Name:        "Powerbanks",
		Slug:        "powerbanks",
		Description: "Gardez votre téléphone chargé partout avec nos powerbanks",
		ImageURL:    "https://images.unsplash.com/photo-1581954548122-53a79dff3773?auto=format&fit=crop&w=400&q=80",
	},
}

type productSeed struct {
	category string
	discount string
	product  domain.Product
}

var products = []productSeed{
	{
		category: "coques-protections",
		product: domain.Product{
			Name:        "Coque Protection Pro",
			Slug:        "coque-protection-pro",
			Description: "Coque de protection robuste et élégante pour iPhone 13/13 Pro",
			Price:       decimal.RequireFromString("24.99"),
			Stock:       50,
			ImageURL:    "https://images.unsplash.com/photo-1600086427699-bfffb4793d29?auto=format&fit=crop&w=500&q=80",
			Featured:    true,
			Rating:      decimal.RequireFromString("5.0"),
			NumReviews:  108,
		},
	},
	{
		category: "chargeurs-cables",
		discount: "19.99",
		product: domain.Product{
			Name:        "Chargeur Rapide USB-C 25W",
			Slug:        "chargeur-rapide-usb-c-25w",
			Description: "Chargeur rapide 25W compatible avec tous les téléphones USB-C",
			Price:       decimal.RequireFromString("24.99"),
			Stock:       45,
			ImageURL:    "https://images.unsplash.com/photo-1609692814858-f7cd2f0afa4f?auto=format&fit=crop&w=500&q=80",
			Featured:    true,
			Rating:      decimal.RequireFromString("4.5"),
			NumReviews:  42,
		},
	},
	{
		category: "ecouteurs-audio",
		discount: "39.99",
		product: domain.Product{
			Name:        "Écouteurs Bluetooth Premium",
			Slug:        "ecouteurs-bluetooth-premium",
			Description: "Écouteurs sans fil avec son HD et 8 heures d'autonomie",
			Price:       decimal.RequireFromString("46.99"),
			Stock:       32,
			ImageURL:    "https://images.unsplash.com/photo-1572536147248-ac59a8abfa4b?auto=format&fit=crop&w=500&q=80",
			Featured:    true,
			Rating:      decimal.RequireFromString("4.0"),
			NumReviews:  67,
		},
	},
	{
		category: "powerbanks",
		product: domain.Product{
			Name:        "Powerbank 20000mAh",
			Slug:        "powerbank-20000mah",
			Description: "Batterie externe 20000mAh avec charge rapide et 2 ports USB",
			Price:       decimal.RequireFromString("49.99"),
			Stock:       20,
			ImageURL:    "https://images.unsplash.com/photo-1581954548122-53a79dff3773?auto=format&fit=crop&w=500&q=80",
			Featured:    true,
			IsNew:       true,
			Rating:      decimal.RequireFromString("4.5"),
			NumReviews:  34,
		},
	},
	{
		category: "coques-protections",
		product: domain.Product{
			Name:        "Support Téléphone Voiture",
			Slug:        "support-telephone-voiture",
			Description: "Support magnétique pour tableau de bord de voiture",
			Price:       decimal.RequireFromString("15.99"),
			Stock:       40,
			ImageURL:    "https://images.unsplash.com/photo-1662219708541-c9a4218a6cea?auto=format&fit=crop&w=300&q=80",
			IsNew:       true,
			Rating:      decimal.RequireFromString("4.0"),
			NumReviews:  8,
		},
	},
	{
		category: "coques-protections",
		product: domain.Product{
			Name:        "Verre Trempé 3D",
			Slug:        "verre-trempe-3d",
			Description: "Protection d'écran en verre trempé 3D avec bords incurvés",
			Price:       decimal.RequireFromString("12.99"),
			Stock:       60,
			ImageURL:    "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?auto=format&fit=crop&w=300&q=80",
			IsNew:       true,
			Rating:      decimal.RequireFromString("4.5"),
			NumReviews:  12,
		},
	},
}

// Run seeds accounts, categories and products when no user exists yet. It
// returns false when the database already had data.
func Run(ctx context.Context, store repository.Store) (bool, error) {
	n, err := store.Users().Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		log.Info().Int64("users", n).Msg("database already seeded, skipping")
		return false, nil
	}

	err = store.WithinTransaction(ctx, func(tx repository.Store) error {
		for _, a := range accounts {
			hash, err := services.HashPassword(a.password)
			if err != nil {
				return err
			}
			u := a.user
			u.PasswordHash = hash
			if err := tx.Users().Create(ctx, &u); err != nil {
				return fmt.Errorf("create user %s: %w", u.Username, err)
			}
		}

		ids := make(map[string]uint64, len(categories))
		for _, c := range categories {
			c := c
			if err := tx.Categories().Create(ctx, &c); err != nil {
				return fmt.Errorf("create category %s: %w", c.Slug, err)
			}
			ids[c.Slug] = c.ID
		}

		for _, s := range products {
			p := s.product
			p.CategoryID = ids[s.category]
			if s.discount != "" {
				p.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString(s.discount))
			}
			if err := tx.Products().Create(ctx, &p); err != nil {
				return fmt.Errorf("create product %s: %w", p.Slug, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	log.Info().
		Int("users", len(accounts)).
		Int("categories", len(categories)).
		Int("products", len(products)).
		Msg("database seeded")
	return true, nil
}
