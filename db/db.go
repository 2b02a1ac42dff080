package db

import (
	"fmt"
	"lab_inventory/models"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured store. sqlite is for local runs and tests;
// it is pinned to one connection since it has a single writer anyway.
func Open(driver, dsn string, lg logger.Interface) (*gorm.DB, error) {
	if lg == nil {
		lg = logger.Default.LogMode(logger.Warn)
	}
	gcfg := &gorm.Config{Logger: lg}

	switch driver {
	case "postgres":
		conn, err := gorm.Open(postgres.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		return conn, nil
	case "sqlite":
		conn, err := gorm.Open(sqlite.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return conn, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Category{}, &models.Location{}, &models.Student{},
		&models.Asset{}, &models.Transaction{}, &models.RepairLog{},
	); err != nil {
		return err
	}

	// 同一资产最多一条未归还借用
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_asset
	  ON %s (asset_id)
	  WHERE status IN ('active', 'overdue');
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return err
	}

	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_asset_date_desc
	  ON %s (asset_id, transaction_date DESC);
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return err
	}

	return nil
}
