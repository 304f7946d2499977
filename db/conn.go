// Package db contains things related to the relational database
package db

import (
	"fmt"

	"bitwise74/auth-api/internal/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the configured database (postgres or sqlite) and migrates the
// schema. TranslateError is on so unique-constraint violations surface as
// gorm.ErrDuplicatedKey regardless of the driver.
func New() (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch viper.GetString("db.driver") {
	case "postgres":
		dsn := fmt.Sprintf("host=%v port=%v user=%v password=%v dbname=%v",
			viper.GetString("db.host"),
			viper.GetInt("db.port"),
			viper.GetString("db.user"),
			viper.GetString("db.password"),
			viper.GetString("db.name"),
		)
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(viper.GetString("db.sqlite_path"))
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	if err := db.AutoMigrate(model.User{}); err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
