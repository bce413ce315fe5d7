package db

import (
	"github.com/tasklight-dev/tasklight/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the datastore. The handle is returned rather than stored in
// a package variable so that stores can be constructed explicitly.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func Migrate(gormDB *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Project{},
		&models.Todo{},
	}

	migrator := gormDB.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := gormDB.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}
