package postgres

import (
	"fmt"
	"time"

	"oms-books-sync/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/pkg/errors"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	DbName   string
	SslMode  string
	// DSN wins over the individual fields when set.
	DSN string
}

func (c Config) dsn() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.DbName, c.Password, c.SslMode)
}

func ConnectDB(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open("postgres", cfg.dsn())
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	db.DB().SetMaxOpenConns(10)
	db.DB().SetMaxIdleConns(5)
	db.DB().SetConnMaxLifetime(30 * time.Minute)

	if err := db.DB().Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return db, nil
}

// Migrate creates or extends the tables backing orders, items and location mappings.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Order{}, &models.Item{}, &models.LocationMapping{}).Error; err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return nil
}
