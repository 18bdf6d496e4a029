package repositories

import (
	"context"

	"github.com/nextbloom/nextbloom-api/app/models"
	"gorm.io/gorm"
)

type CartRepositoryImpl interface {
	GetOrCreateByUserID(ctx context.Context, userID string) (*models.Cart, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepositoryImpl {
	return &cartRepository{db}
}

// GetOrCreateByUserID creates the user's cart lazily on first access;
// the unique index on user_id keeps it one-per-user.
func (r *cartRepository) GetOrCreateByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("CartItems.Product.Category").
		Preload("CartItems.Product.Images").
		Preload("CartItems.Product").
		Preload("CartItems").
		FirstOrCreate(&cart, models.Cart{UserID: userID}).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}
