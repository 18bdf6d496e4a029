package repositories

import (
	"context"

	"github.com/nextbloom/nextbloom-api/app/models"
	"gorm.io/gorm"
)

type OrderItemRepositoryImpl interface {
	BulkCreate(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepositoryImpl {
	return &orderItemRepository{db}
}

func (r *orderItemRepository) BulkCreate(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(&items).Error
}
