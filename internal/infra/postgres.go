package infra

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenPostgres connects the direct gateway driver.
func OpenPostgres(cfg Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.Production() {
		level = gormlogger.Error
	}
	db, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}

func ClosePostgres(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("could not get database handle", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("could not close database connection", zap.Error(err))
		return
	}
	logger.Info("postgres connection closed")
}
