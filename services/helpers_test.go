package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"boothStore/entities"
	"boothStore/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type memCartRepo struct {
	mu    sync.Mutex
	carts map[string]entities.Cart
	sets  int
	fail  error
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: map[string]entities.Cart{}}
}

func (m *memCartRepo) SetCart(_ context.Context, key string, cart entities.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.fail != nil {
		return m.fail
	}
	m.carts[key] = cart
	return nil
}

func (m *memCartRepo) GetCart(_ context.Context, key string) (entities.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return entities.Cart{}, m.fail
	}
	return m.carts[key], nil
}

func (m *memCartRepo) DeleteCart(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, key)
	return nil
}

var errStorage = errors.New("storage down")

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(id, price string) models.Product {
	return models.Product{
		Id:        id,
		Name:      "Product " + id,
		Type:      models.TypeFurniture,
		Price:     money(price),
		PriceType: models.PriceTypeUnit,
		Status:    models.StatusAvailable,
	}
}

func option(id, cost string) models.CustomizationOption {
	return models.CustomizationOption{Id: id, Name: "Option " + id, AdditionalCost: money(cost)}
}

func setupStore(t *testing.T) (*CartStore, *memCartRepo) {
	t.Helper()
	repo := newMemCartRepo()
	return NewCartStore(context.Background(), repo, "jnj-cart:"+t.Name(), zap.NewNop()), repo
}

// recomputedTotal sums line totals computed from scratch.
func recomputedTotal(items []entities.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(LineTotal(it.Product.Price, it.Quantity, it.SelectedCustomizations))
	}
	return sum
}
