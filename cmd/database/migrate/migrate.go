package migration

import (
	"Matosinhos-Grocery-Backend/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.Store{}); err != nil {
		log.Fatalf("Error migrating store database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Receipt{}); err != nil {
		log.Fatalf("Error migrating receipt database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ProductEntry{}); err != nil {
		log.Fatalf("Error migrating product entry database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.PriceLog{}); err != nil {
		log.Fatalf("Error migrating price log database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
