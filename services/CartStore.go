package services

import (
	"context"
	"sync"

	"boothStore/entities"
	"boothStore/models"
	"boothStore/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartStore owns the line items of one cart. All mutation goes through its
// methods, and each mutation is followed by a save to the repository whose
// failure is logged and otherwise ignored.
type CartStore struct {
	mu    sync.Mutex
	key   string
	items []entities.CartItem
	repo  repository.CartRepository
	log   *zap.Logger
}

// NewCartStore restores the cart saved under key. An unreadable snapshot
// yields an empty cart.
func NewCartStore(ctx context.Context, repo repository.CartRepository, key string, logger *zap.Logger) *CartStore {
	s, err := LoadCartStore(ctx, repo, key, logger)
	if err != nil {
		logger.Warn("cart restore failed, starting empty", zap.String("key", key), zap.Error(err))
	}
	return s
}

// LoadCartStore is NewCartStore reporting the read error. The returned store
// is empty, not nil, when err is set.
func LoadCartStore(ctx context.Context, repo repository.CartRepository, key string, logger *zap.Logger) (*CartStore, error) {
	s := &CartStore{
		key:  key,
		repo: repo,
		log:  logger,
	}
	cart, err := repo.GetCart(ctx, key)
	if err != nil {
		return s, err
	}
	for _, it := range cart.Items {
		if it.Quantity <= 0 || it.Product.Id == "" {
			continue
		}
		it.LineTotal = LineTotal(it.Product.Price, it.Quantity, it.SelectedCustomizations)
		s.items = append(s.items, it)
	}
	return s, nil
}

func (s *CartStore) Key() string {
	return s.key
}

func (s *CartStore) find(productId string) int {
	for i := range s.items {
		if s.items[i].Product.Id == productId {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of product. A product already in the cart keeps the
// customization selection it was first added with; later selections are ignored.
func (s *CartStore) AddItem(ctx context.Context, product models.Product, customizations ...models.CustomizationOption) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.find(product.Id); i >= 0 {
		it := &s.items[i]
		it.Quantity++
		it.LineTotal = LineTotal(it.Product.Price, it.Quantity, it.SelectedCustomizations)
	} else {
		selected := make([]models.CustomizationOption, len(customizations))
		copy(selected, customizations)
		s.items = append(s.items, entities.CartItem{
			Product:                product,
			Quantity:               1,
			SelectedCustomizations: selected,
			LineTotal:              LineTotal(product.Price, 1, selected),
		})
	}
	s.save(ctx)
}

// RemoveItem deletes the item for productId; unknown ids are ignored.
func (s *CartStore) RemoveItem(ctx context.Context, productId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(ctx, productId)
}

func (s *CartStore) remove(ctx context.Context, productId string) {
	i := s.find(productId)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.save(ctx)
}

// UpdateQuantity sets the quantity of an item. Zero or negative removes it.
func (s *CartStore) UpdateQuantity(ctx context.Context, productId string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.remove(ctx, productId)
		return
	}
	i := s.find(productId)
	if i < 0 {
		return
	}
	it := &s.items[i]
	it.Quantity = quantity
	it.LineTotal = LineTotal(it.Product.Price, quantity, it.SelectedCustomizations)
	s.save(ctx)
}

func (s *CartStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.save(ctx)
}

// Checkout takes the items and their total and empties the cart in one step.
// An empty cart is left as it is.
func (s *CartStore) Checkout(ctx context.Context) ([]entities.CartItem, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items
	total := s.total()
	if len(items) > 0 {
		s.items = nil
		s.save(ctx)
	}
	return items, total
}

// Total is the unrounded sum of line totals.
func (s *CartStore) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total()
}

func (s *CartStore) total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal)
	}
	return total
}

// ItemCount sums quantities, not distinct lines.
func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// Items returns a copy of the line items in insertion order.
func (s *CartStore) Items() []entities.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]entities.CartItem, len(s.items))
	copy(res, s.items)
	return res
}

func (s *CartStore) save(ctx context.Context) {
	snapshot := entities.Cart{Items: make([]entities.CartItem, len(s.items))}
	copy(snapshot.Items, s.items)
	if err := s.repo.SetCart(ctx, s.key, snapshot); err != nil {
		s.log.Warn("cart save failed", zap.String("key", s.key), zap.Error(err))
	}
}
