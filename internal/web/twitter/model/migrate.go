package model

import (
	errors "github.com/Laisky/errors/v2"
	"gorm.io/gorm"
)

// Migrate creates or updates the tweet tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Tweet{},
		&Media{},
		&Retweet{},
		&UserLike{},
	); err != nil {
		return errors.Wrap(err, "auto migrate tweet tables")
	}

	return nil
}
