package db

import (
	"fmt"

	"notes-api/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the store and migrates the schema. driver is "sqlite" or
// "mysql"; dsn is a file path (sqlite) or a full DSN (mysql).
func InitDB(driver, dsn string) error {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return err
	}

	if driver == "sqlite" {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			return err
		}
	}

	return DB.AutoMigrate(&models.User{}, &models.Note{})
}
