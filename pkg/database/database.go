package database

import (
	"fmt"
	"log"
	"studypact_backend/internal/config"
	"studypact_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 执行全量表结构迁移。测试用的 sqlite 内存库也走这里，
// 保证测试表结构与线上一致
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Roadmap{},
		&model.RoadmapStep{},
		&model.LearnerIdentity{},
		&model.SkipRecord{},
		&model.MissionAttempt{},
		&model.WeakSpot{},
		&model.StudyDebt{},
		&model.EnforcementAction{},
	)
}
