package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/rate"
	store "github.com/frahmantamala/workforce-management/internal/store/postgres"
	"github.com/frahmantamala/workforce-management/internal/user"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const seedPassword = "pass"

// seedRateFrom is far enough back that every payroll period resolves the seeded rate.
var seedRateFrom = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users (password "pass") and staff pay rates for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		app, err := newApplication(cfg)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		ctx := context.Background()
		defer app.Close(ctx)

		if clearData {
			if err := clearTables(app.store.DB()); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := seed(ctx, app); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		fmt.Printf("Seeded users (password = '%s') and pay rates.\n", seedPassword)
	},
}

func seed(ctx context.Context, app *application) error {
	accounts := []struct {
		Name  string
		Email string
		Role  userDatamodel.Role
	}{
		{"Admin", "admin@example.com", userDatamodel.RoleAdmin},
		{"Supervisor", "supervisor@example.com", userDatamodel.RoleSupervisor},
		{"HR Clerk", "hr@example.com", userDatamodel.RoleHR},
	}
	for i := 1; i <= 3; i++ {
		accounts = append(accounts, struct {
			Name  string
			Email string
			Role  userDatamodel.Role
		}{fmt.Sprintf("Staff %d", i), fmt.Sprintf("staff%d@example.com", i), userDatamodel.RoleStaff})
	}

	for _, a := range accounts {
		_, err := app.users.CreateUser(ctx, user.CreateUserDTO{
			Name:     a.Name,
			Email:    a.Email,
			Role:     string(a.Role),
			Password: seedPassword,
		})
		switch {
		case errors.Is(err, internal.ErrEmailTaken):
			fmt.Println("user already exists:", a.Email)
		case err != nil:
			return fmt.Errorf("insert %s: %w", a.Email, err)
		default:
			fmt.Println("Seeded user:", a.Email)
		}
	}

	users, err := app.users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Role != userDatamodel.RoleStaff {
			continue
		}
		existing, err := app.rates.ListRates(ctx, u.ID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}
		if _, err := app.rates.SetRate(ctx, rate.SetRateDTO{
			UserID:        u.ID,
			HourlyRate:    "20.00",
			EffectiveFrom: seedRateFrom,
		}); err != nil {
			return fmt.Errorf("rate for %s: %w", u.Email, err)
		}
		fmt.Println("Seeded pay rate for:", u.Email)
	}
	return nil
}

func clearTables(db *gorm.DB) error {
	models := store.Models()
	return db.Transaction(func(tx *gorm.DB) error {
		for i := len(models) - 1; i >= 0; i-- {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(models[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
