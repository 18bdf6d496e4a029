package repositories

import (
	"context"
	"errors"

	"github.com/nextbloom/nextbloom-api/app/models"
	"gorm.io/gorm"
)

// ProductFilter narrows the shopper-visible listing. Only active rows
// are ever returned.
type ProductFilter struct {
	CategoryID string
	Featured   bool
	OnSale     bool
	Search     string
	Ordering   string
	Limit      int
	Offset     int
}

type ProductRepositoryImpl interface {
	GetProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetActiveByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	DecrementStock(ctx context.Context, tx *gorm.DB, productID string, qty int) error
	RestoreStock(ctx context.Context, tx *gorm.DB, productID string, qty int) error
}

// ErrInsufficientStock is returned when a conditional stock decrement
// matches no row, i.e. the remaining stock is below the requested qty.
var ErrInsufficientStock = errors.New("insufficient stock")

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

var productOrderings = map[string]string{
	"price":       "price asc",
	"-price":      "price desc",
	"rating":      "rating asc",
	"-rating":     "rating desc",
	"created_at":  "created_at asc",
	"-created_at": "created_at desc",
}

func (p *productRepository) GetProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Category").
		Preload("Images").
		Where("is_active = ?", true)

	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if filter.OnSale {
		query = query.Where("discount_price IS NOT NULL")
	}
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", keyword, keyword)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	ordering, ok := productOrderings[filter.Ordering]
	if !ok {
		ordering = "created_at desc"
	}
	query = query.Order(ordering)

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (p *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		Preload("Images").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetActiveByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Create(product).Error
}

// DecrementStock is a single conditional write: the stock >= qty guard
// keeps stock from ever going negative under concurrent checkouts.
func (p *productRepository) DecrementStock(ctx context.Context, tx *gorm.DB, productID string, qty int) error {
	res := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (p *productRepository) RestoreStock(ctx context.Context, tx *gorm.DB, productID string, qty int) error {
	return tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}
