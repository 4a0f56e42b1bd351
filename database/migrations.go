package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeremiapane/yumpooma/models"
	"github.com/yeremiapane/yumpooma/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// schemaModels is every table the app owns, in creation order.
var schemaModels = []interface{}{
	&models.Menu{},
	&models.Reservation{},
	&models.Bill{},
	&models.Sale{},
	&models.Admin{},
}

// Migrate brings the schema up to date. It is safe to run on every start and on
// databases created by the legacy app, where the tables already exist.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(schemaModels...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	m := db.Migrator()
	for _, table := range []string{"menus", "reservations", "bills", "sales", "admin"} {
		if !m.HasTable(table) {
			return fmt.Errorf("table %s missing after migration", table)
		}
	}
	utils.InfoLogger.Info("Database schema verified")
	return nil
}

// isBcryptHash matches the $2a$/$2b$/$2y$ prefixes bcrypt produces.
func isBcryptHash(s string) bool {
	return len(s) == 60 && strings.HasPrefix(s, "$2")
}

// UpgradeAdminPasswords rehashes admin rows that still carry a plaintext
// password. Returns the number of rows rewritten.
func UpgradeAdminPasswords(ctx context.Context, g *Gateway) (int, error) {
	admins, err := g.ListAdmins(ctx)
	if err != nil {
		return 0, err
	}

	upgraded := 0
	for _, admin := range admins {
		if isBcryptHash(admin.Password) {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return upgraded, fmt.Errorf("hash password for %q: %w", admin.Username, err)
		}
		if err := g.UpdateAdminPassword(ctx, admin.ID, string(hash)); err != nil {
			return upgraded, err
		}
		upgraded++
		utils.InfoLogger.Printf("Upgraded plaintext password for admin %q", admin.Username)
	}
	return upgraded, nil
}

// SeedAdmin creates the admin account when no account with that username
// exists. An empty username or password disables seeding.
func SeedAdmin(ctx context.Context, g *Gateway, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	existing, err := g.GetAdminByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	if err := g.CreateAdmin(ctx, &models.Admin{Username: username, Password: string(hash)}); err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded admin account %q", username)
	return nil
}
