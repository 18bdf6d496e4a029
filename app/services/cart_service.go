package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nextbloom/nextbloom-api/app/models"
	"github.com/nextbloom/nextbloom-api/app/repositories"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("item not found in cart")

	// ErrInsufficientStock mirrors the repository sentinel so callers can
	// match either layer with a single errors.Is check.
	ErrInsufficientStock = repositories.ErrInsufficientStock
)

type CartService struct {
	cartRepo     repositories.CartRepositoryImpl
	cartItemRepo repositories.CartItemRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
}

func NewCartService(
	cartRepo repositories.CartRepositoryImpl,
	cartItemRepo repositories.CartItemRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	return s.cartRepo.GetOrCreateByUserID(ctx, userID)
}

// AddItem merges with an existing line for the same product instead of
// creating a duplicate; the merged quantity is held to current stock.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, qty int) (*models.Cart, error) {
	if qty < 1 {
		qty = 1
	}

	product, err := s.productRepo.GetActiveByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if qty > product.Stock {
		return nil, ErrInsufficientStock
	}

	cart, err := s.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	existing, err := s.cartItemRepo.GetByCartAndProduct(ctx, cart.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up cart item: %w", err)
	}

	if existing != nil {
		if existing.Qty+qty > product.Stock {
			return nil, ErrInsufficientStock
		}
		existing.Qty += qty
		if err := s.cartItemRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	} else {
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Qty:       qty,
		}
		if err := s.cartItemRepo.Add(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	}

	return s.cartRepo.GetOrCreateByUserID(ctx, userID)
}

// UpdateItem sets the line quantity; zero or below removes the line.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID string, qty int) (*models.Cart, error) {
	cart, err := s.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	item, err := s.cartItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up cart item: %w", err)
	}
	if item == nil || item.CartID != cart.ID {
		return nil, ErrCartItemNotFound
	}

	if qty <= 0 {
		if err := s.cartItemRepo.Delete(ctx, item.ID); err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
		return s.cartRepo.GetOrCreateByUserID(ctx, userID)
	}

	product, err := s.productRepo.GetActiveByID(ctx, item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if qty > product.Stock {
		return nil, ErrInsufficientStock
	}

	item.Qty = qty
	if err := s.cartItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return s.cartRepo.GetOrCreateByUserID(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	item, err := s.cartItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up cart item: %w", err)
	}
	if item == nil || item.CartID != cart.ID {
		return nil, ErrCartItemNotFound
	}

	if err := s.cartItemRepo.Delete(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return s.cartRepo.GetOrCreateByUserID(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if err := s.cartItemRepo.ClearCartItems(ctx, nil, cart.ID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	return s.cartRepo.GetOrCreateByUserID(ctx, userID)
}
