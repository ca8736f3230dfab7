// internal/database/migrations.go
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Migration is a named, re-runnable list of schema statements.
type Migration struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Statements  []string `json:"-"`
}

type MigrationResult struct {
	Name           string `json:"name"`
	Applied        int    `json:"applied"`
	AlreadyApplied int    `json:"already_applied"`
}

var ErrUnknownMigration = errors.New("unknown migration")

var migrations = []Migration{
	{
		Name:        "products-purchase-links",
		Description: "Add purchase_links to products",
		Statements: []string{
			"ALTER TABLE products ADD COLUMN purchase_links TEXT",
		},
	},
	{
		Name:        "products-story",
		Description: "Add story to products",
		Statements: []string{
			"ALTER TABLE products ADD COLUMN story TEXT",
		},
	},
	{
		Name:        "series-theme",
		Description: "Add theme colors to series",
		Statements: []string{
			"ALTER TABLE series ADD COLUMN theme_primary VARCHAR(20)",
			"ALTER TABLE series ADD COLUMN theme_accent VARCHAR(20)",
		},
	},
	{
		Name:        "labels",
		Description: "Create labels table",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS labels (
				id VARCHAR(36) PRIMARY KEY,
				code VARCHAR(64) NOT NULL UNIQUE,
				product_id VARCHAR(36),
				product_name VARCHAR(255),
				series VARCHAR(100),
				price NUMERIC DEFAULT 0,
				description TEXT,
				story TEXT,
				material VARCHAR(255),
				images TEXT,
				care_instructions TEXT,
				purchase_links TEXT,
				is_active BOOLEAN DEFAULT TRUE,
				scan_count BIGINT NOT NULL DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		Name:        "labels-last-scanned",
		Description: "Add last_scanned_at to labels",
		Statements: []string{
			"ALTER TABLE labels ADD COLUMN last_scanned_at TIMESTAMP",
		},
	},
	{
		Name:        "label-scans",
		Description: "Create label scan history",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS label_scans (
				id VARCHAR(36) PRIMARY KEY,
				label_id VARCHAR(36) NOT NULL,
				ip_hash VARCHAR(64),
				user_agent VARCHAR(200),
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
			"CREATE INDEX IF NOT EXISTS idx_label_scans_label_id ON label_scans(label_id)",
		},
	},
	{
		Name:        "reviews",
		Description: "Create reviews table",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS reviews (
				id VARCHAR(36) PRIMARY KEY,
				product_id VARCHAR(36) NOT NULL,
				user_id VARCHAR(100) NOT NULL,
				user_name VARCHAR(255),
				rating INTEGER NOT NULL,
				content TEXT,
				status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
			"CREATE INDEX IF NOT EXISTS idx_reviews_product_status ON reviews(product_id, status)",
		},
	},
	{
		Name:        "reviews-featured",
		Description: "Add is_featured to reviews",
		Statements: []string{
			"ALTER TABLE reviews ADD COLUMN is_featured BOOLEAN DEFAULT FALSE",
		},
	},
	{
		Name:        "wishlists",
		Description: "Create wishlists table",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS wishlists (
				id VARCHAR(36) PRIMARY KEY,
				user_id VARCHAR(100) NOT NULL,
				product_id VARCHAR(36) NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_wishlists_user_product ON wishlists(user_id, product_id)",
		},
	},
	{
		Name:        "site-settings",
		Description: "Create site settings table",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS site_settings (
				key VARCHAR(100) PRIMARY KEY,
				value TEXT,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		Name:        "analytics",
		Description: "Create product click and page view tables",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS product_clicks (
				id VARCHAR(36) PRIMARY KEY,
				product_id VARCHAR(36) NOT NULL,
				source VARCHAR(50),
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS page_views (
				id VARCHAR(36) PRIMARY KEY,
				path VARCHAR(500) NOT NULL,
				referrer VARCHAR(500),
				user_agent VARCHAR(200),
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
			"CREATE INDEX IF NOT EXISTS idx_product_clicks_product_id ON product_clicks(product_id)",
			"CREATE INDEX IF NOT EXISTS idx_page_views_path ON page_views(path)",
		},
	},
	{
		Name:        "codes",
		Description: "Create tracking codes table",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS codes (
				id VARCHAR(36) PRIMARY KEY,
				code VARCHAR(16) NOT NULL UNIQUE,
				product_id VARCHAR(36),
				status VARCHAR(20) NOT NULL DEFAULT 'active',
				scan_count BIGINT NOT NULL DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
}

// Migrations returns the registered migrations in execution order.
func Migrations() []Migration {
	out := make([]Migration, len(migrations))
	copy(out, migrations)
	return out
}

// RunMigration executes one named migration, or every migration for "all".
func RunMigration(ctx context.Context, db *gorm.DB, name string) ([]MigrationResult, error) {
	if name == "all" {
		results := make([]MigrationResult, 0, len(migrations))
		for _, m := range migrations {
			res, err := apply(ctx, db, m)
			if err != nil {
				return results, err
			}
			results = append(results, res)
		}
		return results, nil
	}

	for _, m := range migrations {
		if m.Name == name {
			res, err := apply(ctx, db, m)
			if err != nil {
				return nil, err
			}
			return []MigrationResult{res}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownMigration, name)
}

func apply(ctx context.Context, db *gorm.DB, m Migration) (MigrationResult, error) {
	res := MigrationResult{Name: m.Name}
	for _, stmt := range m.Statements {
		err := db.WithContext(ctx).Exec(stmt).Error
		switch {
		case err == nil:
			res.Applied++
		case IsAlreadyExists(err):
			res.AlreadyApplied++
		default:
			return res, fmt.Errorf("migration %s failed: %w", m.Name, err)
		}
	}
	return res, nil
}

// IsAlreadyExists reports whether err means the table, column or index a
// statement tried to create is already there.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P07", "42701", "42710":
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate column")
}
