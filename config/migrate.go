package config

import (
	"log"

	"research-directory-api/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// GetMigrator returns the schema migrator. The unique indexes created here
// (scholar slug, keyword name/slug, publication DOI) back the dedup and
// race handling in the services package and must not be dropped.
func GetMigrator(db *gorm.DB) *gormigrate.Gormigrate {
	migrator := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202506010001-contact-handled-flag",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.ContactMessage{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropColumn(&models.ContactMessage{}, "handled")
			},
		},
	})

	migrator.InitSchema(func(tx *gorm.DB) error {
		// Run by the migrator when no previous migration is detected; creates
		// the latest schema in one pass instead of replaying every step.
		log.Println("clean database detected, running full schema initialization")

		return tx.AutoMigrate(
			&models.Scholar{},
			&models.Publication{},
			&models.Keyword{},
			&models.ScholarPublication{},
			&models.ScholarKeyword{},
			&models.User{},
			&models.PasswordReset{},
			&models.ContactMessage{},
		)
	})

	return migrator
}

func RunMigrations(db *gorm.DB) {
	log.Println("running db migrations")

	if err := GetMigrator(db).Migrate(); err != nil {
		log.Fatalf("db migration failed: %v", err)
	}

	log.Println("db migrations complete")
}
