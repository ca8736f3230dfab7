// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/kk-storefront/internal/config"
	"github.com/javajoker/kk-storefront/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
		// Series, products and wishlists reference each other by value only.
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	var dialector gorm.Dialector
	if cfg.Dialect() == config.DialectSQLite {
		dialector = sqlite.Open(cfg.DSN())
	} else {
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	if cfg.Dialect() == config.DialectSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("dialect", cfg.Dialect()).Info("Database connection established")
	return db, nil
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

// AllModels lists every table owned by the service.
func AllModels() []interface{} {
	return []interface{}{
		&models.Product{},
		&models.Series{},
		&models.Accessory{},
		&models.ProductAttribute{},
		&models.Code{},
		&models.Label{},
		&models.LabelScan{},
		&models.Review{},
		&models.Wishlist{},
		&models.ProductClick{},
		&models.PageView{},
		&models.SiteSetting{},
		&models.AuditLog{},
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	createIndexes(db)

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_accessories_created_at ON accessories(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_reviews_product_status ON reviews(product_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_codes_created_at ON codes(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_page_views_path_created ON page_views(path, created_at)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}
}

// SeedInitialData inserts default attributes and settings when absent.
func SeedInitialData(db *gorm.DB) error {
	attributes := []models.ProductAttribute{
		{Type: models.AttributeTypeModel, Value: "oversized-tee", Label: "Oversized Tee", SortOrder: 1},
		{Type: models.AttributeTypeModel, Value: "hoodie", Label: "Hoodie", SortOrder: 2},
		{Type: models.AttributeTypeModel, Value: "cargo-pants", Label: "Cargo Pants", SortOrder: 3},
		{Type: models.AttributeTypeMaterial, Value: "cotton-240g", Label: "240g Heavyweight Cotton", SortOrder: 1},
		{Type: models.AttributeTypeMaterial, Value: "french-terry", Label: "French Terry", SortOrder: 2},
		{Type: models.AttributeTypeSize, Value: "S", Label: "S", SortOrder: 1},
		{Type: models.AttributeTypeSize, Value: "M", Label: "M", SortOrder: 2},
		{Type: models.AttributeTypeSize, Value: "L", Label: "L", SortOrder: 3},
		{Type: models.AttributeTypeSize, Value: "XL", Label: "XL", SortOrder: 4},
		{Type: models.AttributeTypeCategory, Value: "tops", Label: "Tops", SortOrder: 1},
		{Type: models.AttributeTypeCategory, Value: "bottoms", Label: "Bottoms", SortOrder: 2},
		{Type: models.AttributeTypeCategory, Value: "outerwear", Label: "Outerwear", SortOrder: 3},
	}

	for _, attr := range attributes {
		var count int64
		db.Model(&models.ProductAttribute{}).
			Where("type = ? AND value = ?", attr.Type, attr.Value).
			Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&attr).Error; err != nil {
			return fmt.Errorf("failed to seed attribute %s/%s: %w", attr.Type, attr.Value, err)
		}
	}

	settings := []models.SiteSetting{
		{Key: "promo_active", Value: "false"},
		{Key: "promo_text", Value: ""},
	}
	for _, setting := range settings {
		var count int64
		db.Model(&models.SiteSetting{}).Where("key = ?", setting.Key).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", setting.Key, err)
		}
	}

	logrus.Info("Initial data seeding completed")
	return nil
}
