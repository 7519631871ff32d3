package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/superbett/bancas-api/internal/config"
)

// OpenPostgres opens the shared pool. It is the only mutable resource shared
// between requests; every transaction borrows one connection from it.
func OpenPostgres(conf *config.PostgresConfig) (*gorm.DB, error) {
	return open(conf.DSN(), conf)
}

// OpenPostgresWithURL opens the pool from a connection URL, keeping pool limits from conf.
func OpenPostgresWithURL(url string, conf *config.PostgresConfig) (*gorm.DB, error) {
	return open(url, conf)
}

func open(dsn string, conf *config.PostgresConfig) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("gdb.DB -> %w", err)
	}
	if conf != nil {
		if conf.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
		}
		if conf.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
		}
		if conf.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(conf.ConnMaxLifetime)
		}
	}

	return gdb, nil
}

// Close releases every pooled connection.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
