package services

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nextbloom/nextbloom-api/app/models"
	"github.com/nextbloom/nextbloom-api/app/repositories"
)

// In-memory fakes backing the service tests. They implement the
// repository interfaces directly so the services run without a
// database.

type fakeTxManager struct{}

func (fakeTxManager) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	return fc(nil)
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "user-" + strconv.Itoa(len(r.users)+1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	for _, u := range r.users {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email != nil && *u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID, hashedPassword string) error {
	if u, ok := r.users[userID]; ok {
		u.Password = hashedPassword
	}
	return nil
}

type fakeOTPRepo struct {
	stored *models.PasswordResetOTP
}

func (r *fakeOTPRepo) Replace(_ context.Context, otp *models.PasswordResetOTP) error {
	r.stored = otp
	return nil
}

func (r *fakeOTPRepo) Consume(_ context.Context, phone, code string) (bool, error) {
	o := r.stored
	if o == nil || o.PhoneNumber != phone || o.OTP != code || o.IsUsed || time.Now().After(o.ExpiresAt) {
		return false, nil
	}
	o.IsUsed = true
	return true, nil
}

type fakeProductRepo struct {
	products map[string]*models.Product
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*models.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetProducts(_ context.Context, _ repositories.ProductFilter) ([]models.Product, int64, error) {
	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetActiveByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok || !p.IsActive {
		return nil, nil
	}
	return p, nil
}

func (r *fakeProductRepo) Create(_ context.Context, product *models.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) DecrementStock(_ context.Context, _ *gorm.DB, productID string, qty int) error {
	p, ok := r.products[productID]
	if !ok || p.Stock < qty {
		return repositories.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (r *fakeProductRepo) RestoreStock(_ context.Context, _ *gorm.DB, productID string, qty int) error {
	if p, ok := r.products[productID]; ok {
		p.Stock += qty
	}
	return nil
}

// fakeCartBackend implements both the cart and the cart item repository
// interfaces over one shared item map.
type fakeCartBackend struct {
	products *fakeProductRepo
	items    map[string]*models.CartItem
	nextID   int
}

func newFakeCartBackend(products *fakeProductRepo) *fakeCartBackend {
	return &fakeCartBackend{products: products, items: map[string]*models.CartItem{}}
}

func (b *fakeCartBackend) GetOrCreateByUserID(_ context.Context, userID string) (*models.Cart, error) {
	cart := &models.Cart{ID: "cart-" + userID, UserID: userID}
	for _, item := range b.items {
		if item.CartID != cart.ID {
			continue
		}
		copied := *item
		copied.Product = b.products.products[item.ProductID]
		cart.CartItems = append(cart.CartItems, copied)
	}
	return cart, nil
}

func (b *fakeCartBackend) Add(_ context.Context, item *models.CartItem) error {
	b.nextID++
	if item.ID == "" {
		item.ID = "item-" + strconv.Itoa(b.nextID)
	}
	b.items[item.ID] = item
	return nil
}

func (b *fakeCartBackend) Update(_ context.Context, item *models.CartItem) error {
	b.items[item.ID] = item
	return nil
}

func (b *fakeCartBackend) Delete(_ context.Context, id string) error {
	delete(b.items, id)
	return nil
}

func (b *fakeCartBackend) GetByID(_ context.Context, id string) (*models.CartItem, error) {
	item, ok := b.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	copied.Product = b.products.products[item.ProductID]
	return &copied, nil
}

func (b *fakeCartBackend) GetByCartAndProduct(_ context.Context, cartID, productID string) (*models.CartItem, error) {
	for _, item := range b.items {
		if item.CartID == cartID && item.ProductID == productID {
			return item, nil
		}
	}
	return nil, nil
}

func (b *fakeCartBackend) ClearCartItems(_ context.Context, _ *gorm.DB, cartID string) error {
	for id, item := range b.items {
		if item.CartID == cartID {
			delete(b.items, id)
		}
	}
	return nil
}

type fakeOrderRepo struct {
	orders map[string]*models.Order
	nextID int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*models.Order{}}
}

func (r *fakeOrderRepo) Create(_ context.Context, _ *gorm.DB, order *models.Order) error {
	r.nextID++
	if order.ID == "" {
		order.ID = "order-" + strconv.Itoa(r.nextID)
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) GetByIDForUser(_ context.Context, orderID, userID string) (*models.Order, error) {
	order, ok := r.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, nil
	}
	return order, nil
}

func (r *fakeOrderRepo) FindByUserID(_ context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, _ *gorm.DB, order *models.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, _ *gorm.DB, order *models.Order) error {
	delete(r.orders, order.ID)
	return nil
}

type fakeOrderItemRepo struct {
	created []models.OrderItem
}

func (r *fakeOrderItemRepo) BulkCreate(_ context.Context, _ *gorm.DB, items []models.OrderItem) error {
	r.created = append(r.created, items...)
	return nil
}

type fakePaymentGateway struct {
	createResult *PaymentOrder
	verifyResult bool
	keyID        string
}

func (g *fakePaymentGateway) CreateOrder(_ context.Context, amount decimal.Decimal, currency, receipt string) *PaymentOrder {
	return g.createResult
}

func (g *fakePaymentGateway) VerifySignature(_, _, _ string) bool {
	return g.verifyResult
}

func (g *fakePaymentGateway) Capture(_ context.Context, _ string, _ decimal.Decimal) *PaymentCapture {
	return nil
}

func (g *fakePaymentGateway) KeyID() string {
	return g.keyID
}

type fakeDeliveryGateway struct {
	createResult ShipmentResult
	lastRequest  *ShipmentRequest
	status       *ShipmentStatus
	cancelResult CancelResult
	cancelled    []string
}

func (g *fakeDeliveryGateway) CreateShipment(_ context.Context, req ShipmentRequest) ShipmentResult {
	g.lastRequest = &req
	return g.createResult
}

func (g *fakeDeliveryGateway) GetStatus(_ context.Context, _ string) *ShipmentStatus {
	return g.status
}

func (g *fakeDeliveryGateway) CancelShipment(_ context.Context, trackingID string) CancelResult {
	g.cancelled = append(g.cancelled, trackingID)
	return g.cancelResult
}
