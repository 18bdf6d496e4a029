package fakers

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/nextbloom/nextbloom-api/app/models"
)

var imagePaths = []string{
	"/images/products/bloom-1.jpg",
	"/images/products/bloom-2.jpg",
	"/images/products/bloom-3.jpg",
}

func fakePrice() float64 {
	price := rand.Float64()*4900 + 99
	return math.Round(price*100) / 100
}

// ProductFaker builds a product under the given category with one to
// three images, a random price, and a discount on roughly a third of
// the rows.
func ProductFaker(category *models.Category) *models.Product {
	name := faker.Word() + " " + faker.Word()
	productID := uuid.New().String()

	numImages := rand.Intn(3) + 1
	images := make([]models.ProductImage, numImages)
	for i := 0; i < numImages; i++ {
		images[i] = models.ProductImage{
			ID:        uuid.New().String(),
			ProductID: productID,
			Path:      imagePaths[rand.Intn(len(imagePaths))],
			IsPrimary: i == 0,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}

	price := decimal.NewFromFloat(fakePrice())
	product := &models.Product{
		ID:          productID,
		CategoryID:  category.ID,
		Name:        name,
		Slug:        slug.Make(name + "-" + uuid.NewString()[:6]),
		Description: faker.Paragraph(),
		Price:       price,
		Stock:       rand.Intn(50) + 1,
		ImagePath:   images[0].Path,
		Images:      images,
		IsActive:    true,
		IsFeatured:  rand.Intn(5) == 0,
		Rating:      decimal.NewFromFloat(math.Round((rand.Float64()*2+3)*100) / 100),
		NumReviews:  rand.Intn(200),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if rand.Intn(3) == 0 {
		discount := price.Mul(decimal.NewFromFloat(0.8)).Round(2)
		product.DiscountPrice = &discount
	}

	return product
}
