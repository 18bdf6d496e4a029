package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            string           `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name          string           `gorm:"size:255;not null" json:"name"`
	Slug          string           `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description   string           `gorm:"type:text" json:"description"`
	CategoryID    string           `gorm:"size:36;index" json:"category_id"`
	Category      Category         `gorm:"foreignKey:CategoryID" json:"category"`
	Price         decimal.Decimal  `gorm:"type:decimal(16,2);not null" json:"price"`
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(16,2);null" json:"discount_price"`
	Stock         int              `gorm:"not null;default:0" json:"stock"`
	ImagePath     string           `gorm:"size:255" json:"image"`
	Images        []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	IsActive      bool             `gorm:"default:true" json:"is_active"`
	IsFeatured    bool             `gorm:"default:false" json:"is_featured"`
	Rating        decimal.Decimal  `gorm:"type:decimal(3,2);default:0.00" json:"rating"`
	NumReviews    int              `gorm:"default:0" json:"num_reviews"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// FinalPrice is the discount price when one is set and actually lower
// than the base price, otherwise the base price. Never stored.
func (p *Product) FinalPrice() decimal.Decimal {
	if p.DiscountPrice != nil && p.DiscountPrice.LessThan(p.Price) {
		return *p.DiscountPrice
	}
	return p.Price
}

// DiscountPercentage is derived from the two prices, rounded to a whole
// percent. Zero when there is no effective discount.
func (p *Product) DiscountPercentage() int {
	final := p.FinalPrice()
	if p.Price.IsZero() || final.Equal(p.Price) {
		return 0
	}
	pct := p.Price.Sub(final).Div(p.Price).Mul(decimal.NewFromInt(100))
	return int(pct.Round(0).IntPart())
}

// PrimaryImage returns the image flagged primary, falling back to the
// main product image path.
func (p *Product) PrimaryImage() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.Path
		}
	}
	return p.ImagePath
}

type ProductImage struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProductID string    `gorm:"size:36;not null;index" json:"product_id"`
	Path      string    `gorm:"size:255;not null" json:"image"`
	IsPrimary bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (pi *ProductImage) BeforeCreate(tx *gorm.DB) (err error) {
	if pi.ID == "" {
		pi.ID = uuid.New().String()
	}
	return
}
