package repositories

import (
	"context"
	"errors"

	"github.com/nextbloom/nextbloom-api/app/models"
	"gorm.io/gorm"
)

type CartItemRepositoryImpl interface {
	Add(ctx context.Context, item *models.CartItem) error
	Update(ctx context.Context, item *models.CartItem) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.CartItem, error)
	GetByCartAndProduct(ctx context.Context, cartID, productID string) (*models.CartItem, error)
	ClearCartItems(ctx context.Context, tx *gorm.DB, cartID string) error
}

type cartItemRepository struct {
	db *gorm.DB
}

func NewCartItemRepository(db *gorm.DB) CartItemRepositoryImpl {
	return &cartItemRepository{db}
}

func (r *cartItemRepository) Add(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartItemRepository) Update(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *cartItemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CartItem{}).Error
}

func (r *cartItemRepository) GetByID(ctx context.Context, id string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *cartItemRepository) GetByCartAndProduct(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ClearCartItems runs on the given transaction when checkout clears the
// cart together with the order status change.
func (r *cartItemRepository) ClearCartItems(ctx context.Context, tx *gorm.DB, cartID string) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
