package seeders

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/nextbloom/nextbloom-api/app/db/fakers"
	"github.com/nextbloom/nextbloom-api/app/models"
)

const productsPerCategory = 8

var categoryNames = []string{
	"Indoor Plants",
	"Outdoor Plants",
	"Succulents",
	"Flower Seeds",
	"Planters & Pots",
	"Garden Tools",
}

// DBSeed fills the catalog with the fixed category set and a batch of
// faked products per category. Categories already present are reused,
// so the seeder can run repeatedly.
func DBSeed(db *gorm.DB) error {
	for _, name := range categoryNames {
		category := &models.Category{
			Name:     name,
			Slug:     slug.Make(name),
			IsActive: true,
		}
		if err := db.FirstOrCreate(category, models.Category{Slug: category.Slug}).Error; err != nil {
			return err
		}

		for i := 0; i < productsPerCategory; i++ {
			if err := db.Create(fakers.ProductFaker(category)).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
