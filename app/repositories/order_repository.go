package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nextbloom/nextbloom-api/app/models"
	"gorm.io/gorm"
)

// TxManager is the slice of *gorm.DB the checkout service needs to run
// its multi-write sequences atomically.
type TxManager interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

type OrderRepositoryImpl interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	GetByIDForUser(ctx context.Context, orderID, userID string) (*models.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Order, error)
	Update(ctx context.Context, tx *gorm.DB, order *models.Order) error
	Delete(ctx context.Context, tx *gorm.DB, order *models.Order) error
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepositoryImpl {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(order).Error
}

func (r *gormOrderRepository) GetByIDForUser(ctx context.Context, orderID, userID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems.Product.Category").
		Preload("OrderItems.Product.Images").
		Preload("OrderItems").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) FindByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems.Product").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

func (r *gormOrderRepository) Update(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	db := tx
	if db == nil {
		db = r.db
	}
	order.UpdatedAt = time.Now()
	return db.WithContext(ctx).Save(order).Error
}

// Delete removes the order and its line items; the payment rollback
// path is its only caller.
func (r *gormOrderRepository) Delete(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	db := tx
	if db == nil {
		db = r.db
	}
	if err := db.WithContext(ctx).Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(order).Error
}
