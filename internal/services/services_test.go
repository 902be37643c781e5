package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/repository"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/repository/memstore"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail  = "admin@example.com"
	sellerEmail = "seller@example.com"
	buyerEmail  = "buyer@example.com"
	otherBuyer  = "other@example.com"
)

type published struct {
	key   string
	value []byte
}

// recordingProducer captures published events.
type recordingProducer struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingProducer) PublishMessage(_ context.Context, key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{key: string(key), value: value})
	return nil
}

func (p *recordingProducer) byEvent(name string) []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []published
	for _, e := range p.events {
		var env struct {
			Event string `json:"event"`
		}
		if json.Unmarshal(e.value, &env) == nil && env.Event == name {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	mem      *memstore.Memory
	store    *repository.Store
	producer *recordingProducer
	users    UserService
	market   MarketplaceService
	payments PaymentService

	// waits records settlement backoffs instead of sleeping.
	waits []time.Duration
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := memstore.New()
	store := mem.Store()
	producer := &recordingProducer{}
	f := &fixture{
		mem:      mem,
		store:    store,
		producer: producer,
		users:    NewUserService(store, helper.SetupAuth("secret", time.Hour), producer, nil),
		market:   NewMarketplaceService(store, nil, producer, nil),
		payments: NewPaymentService(store, nil, "usd", producer, nil),
	}
	f.payments.(*paymentService).wait = func(_ context.Context, d time.Duration) error {
		f.waits = append(f.waits, d)
		return nil
	}

	ctx := context.Background()
	for email, role := range map[string]domain.Role{
		adminEmail:  domain.RoleAdmin,
		sellerEmail: domain.RoleSeller,
		buyerEmail:  domain.RoleBuyer,
		otherBuyer:  domain.RoleBuyer,
	} {
		_, err := store.Users.UpsertUser(ctx, &domain.User{Name: string(role), Email: email, Role: role})
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) listProduct(t *testing.T, name, category string, price float64) *domain.Product {
	t.Helper()
	p := &domain.Product{
		SellerEmail: sellerEmail,
		SellerName:  "seller",
		CategoryID:  category,
		Name:        name,
		ResalePrice: price,
	}
	require.NoError(t, f.store.Products.CreateProduct(context.Background(), p))
	return p
}

func (f *fixture) product(t *testing.T, id string) *domain.Product {
	t.Helper()
	p, err := f.store.Products.FindProductByID(context.Background(), id)
	require.NoError(t, err)
	return p
}
