// Package memstore keeps every record set in process memory. It backs
// STORE_DRIVER=memory for local runs and the service tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/repository"
	"github.com/google/uuid"
)

type Memory struct {
	mu         sync.RWMutex
	now        func() time.Time
	users      map[string]domain.User // by email
	products   map[string]domain.Product
	orders     map[string]domain.Order   // by product id
	payments   map[string]domain.Payment // by transaction id
	categories []domain.Category
	blogs      []domain.Blog
	audit      []domain.AuditLog
}

func New() *Memory {
	return &Memory{
		now:      time.Now,
		users:    map[string]domain.User{},
		products: map[string]domain.Product{},
		orders:   map[string]domain.Order{},
		payments: map[string]domain.Payment{},
	}
}

// Store exposes the memory as a repository.Store.
func (m *Memory) Store() *repository.Store {
	return repository.NewStore(
		userRepo{m}, productRepo{m}, orderRepo{m}, paymentRepo{m}, catalogRepo{m}, auditRepo{m},
		func(context.Context) error { return nil },
	)
}

// Seed loads reference data.
func (m *Memory) Seed(categories []domain.Category, blogs []domain.Blog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = append(m.categories, categories...)
	m.blogs = append(m.blogs, blogs...)
}

func (m *Memory) AuditLogs() []domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.AuditLog(nil), m.audit...)
}

func (m *Memory) PaymentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

func (m *Memory) OrderCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// ===== users =====

type userRepo struct{ m *Memory }

func (r userRepo) UpsertUser(_ context.Context, user *domain.User) (*domain.User, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	existing, ok := m.users[user.Email]
	if ok {
		existing.Name = user.Name
		existing.PhotoURL = user.PhotoURL
		existing.UpdatedAt = now
		m.users[user.Email] = existing
		out := existing
		return &out, nil
	}

	created := *user
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.Role == "" {
		created.Role = domain.RoleBuyer
	}
	created.CreatedAt = now
	created.UpdatedAt = now
	m.users[created.Email] = created
	return &created, nil
}

func (r userRepo) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	u, ok := r.m.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) ListUsers(_ context.Context, role domain.Role) ([]domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := []domain.User{}
	for _, u := range r.m.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r userRepo) SetVerified(_ context.Context, email string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[email]
	if !ok {
		return domain.ErrNotFound
	}
	u.Verified = true
	u.UpdatedAt = r.m.now()
	r.m.users[email] = u
	return nil
}

func (r userRepo) DeleteUserByID(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for email, u := range r.m.users {
		if u.ID == id {
			delete(r.m.users, email)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ===== products =====

type productRepo struct{ m *Memory }

func (r productRepo) CreateProduct(_ context.Context, product *domain.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if _, ok := r.m.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	now := r.m.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.m.products[product.ID] = *product
	return nil
}

func (r productRepo) FindProductByID(_ context.Context, id string) (*domain.Product, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	p, ok := r.m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r productRepo) filter(keep func(domain.Product) bool) []domain.Product {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := []domain.Product{}
	for _, p := range r.m.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r productRepo) ListAvailableByCategory(_ context.Context, categoryID string) ([]domain.Product, error) {
	return r.filter(func(p domain.Product) bool {
		return p.CategoryID == categoryID && !p.IsBooked && !p.Sold
	}), nil
}

func (r productRepo) ListBySeller(_ context.Context, email string) ([]domain.Product, error) {
	return r.filter(func(p domain.Product) bool { return p.SellerEmail == email }), nil
}

func (r productRepo) ListReported(_ context.Context) ([]domain.Product, error) {
	return r.filter(func(p domain.Product) bool { return p.Reported }), nil
}

func (r productRepo) ListAdvertised(_ context.Context) ([]domain.Product, error) {
	return r.filter(func(p domain.Product) bool { return p.Advertise && !p.Sold }), nil
}

func (r productRepo) UpdateProduct(_ context.Context, id string, patch domain.ProductPatch) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	patch.Apply(&p)
	p.UpdatedAt = r.m.now()
	r.m.products[id] = p
	return nil
}

func (r productRepo) MarkVerifiedBySeller(_ context.Context, email string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for id, p := range r.m.products {
		if p.SellerEmail != email {
			continue
		}
		p.IsVerified = true
		r.m.products[id] = p
		n++
	}
	return n, nil
}

func (r productRepo) DeleteProduct(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.m.products, id)
	return nil
}

// ===== orders =====

type orderRepo struct{ m *Memory }

func (r orderRepo) UpsertOrderByProduct(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	now := r.m.now()
	next := *order
	if existing, ok := r.m.orders[order.ProductID]; ok {
		next.ID = existing.ID
		next.CreatedAt = existing.CreatedAt
	} else {
		if next.ID == "" {
			next.ID = uuid.NewString()
		}
		next.CreatedAt = now
	}
	next.UpdatedAt = now
	r.m.orders[order.ProductID] = next
	return &next, nil
}

func (r orderRepo) MarkOrderPaid(_ context.Context, productID, email, transactionID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	now := r.m.now()
	o, ok := r.m.orders[productID]
	if !ok {
		o = domain.Order{ID: uuid.NewString(), ProductID: productID, Email: email, CreatedAt: now}
	}
	o.Paid = true
	o.TransactionID = &transactionID
	o.UpdatedAt = now
	r.m.orders[productID] = o
	return nil
}

func (r orderRepo) FindOrderByProduct(_ context.Context, productID string) (*domain.Order, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	o, ok := r.m.orders[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r orderRepo) FindOrderByID(_ context.Context, id string) (*domain.Order, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, o := range r.m.orders {
		if o.ID == id {
			out := o
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r orderRepo) ListOrdersByEmail(_ context.Context, email string) ([]domain.Order, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := []domain.Order{}
	for _, o := range r.m.orders {
		if o.Email == email {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r orderRepo) DeleteOrder(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for productID, o := range r.m.orders {
		if o.ID == id {
			delete(r.m.orders, productID)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ===== payments =====

type paymentRepo struct{ m *Memory }

func (r paymentRepo) CreatePayment(_ context.Context, payment *domain.Payment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.payments[payment.TransactionID]; ok {
		return domain.ErrDuplicate
	}
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := r.m.now()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	r.m.payments[payment.TransactionID] = *payment
	return nil
}

func (r paymentRepo) FindPaymentByTransaction(_ context.Context, transactionID string) (*domain.Payment, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	p, ok := r.m.payments[transactionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r paymentRepo) MarkSettled(_ context.Context, transactionID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.payments[transactionID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Settled = true
	p.UpdatedAt = r.m.now()
	r.m.payments[transactionID] = p
	return nil
}

func (r paymentRepo) ListPayments(_ context.Context) ([]domain.Payment, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make([]domain.Payment, 0, len(r.m.payments))
	for _, p := range r.m.payments {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ===== catalog / audit =====

type catalogRepo struct{ m *Memory }

func (r catalogRepo) ListCategories(context.Context) ([]domain.Category, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return append([]domain.Category{}, r.m.categories...), nil
}

func (r catalogRepo) ListBlogs(context.Context) ([]domain.Blog, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return append([]domain.Blog{}, r.m.blogs...), nil
}

type auditRepo struct{ m *Memory }

func (r auditRepo) CreateAuditLog(_ context.Context, entry *domain.AuditLog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = r.m.now()
	r.m.audit = append(r.m.audit, *entry)
	return nil
}
