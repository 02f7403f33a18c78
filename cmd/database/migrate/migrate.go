package migration

import (
	"fmt"
	"log"

	"github.com/m2-berezin/safedine-app/entities"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	models := []interface{}{
		&entities.User{},
		&entities.Location{},
		&entities.Restaurant{},
		&entities.DiningTable{},
		&entities.Menu{},
		&entities.MenuCategory{},
		&entities.MenuItem{},
		&entities.Order{},
		&entities.RestaurantVisit{},
		&entities.LoyaltyProfile{},
		&entities.LoyaltyReward{},
		&entities.LoyaltyTransaction{},
		&entities.Review{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			log.Fatalf("Error migrating database: %v", err)
			return err
		}
	}

	fmt.Println("Database migration complete")
	return nil
}
