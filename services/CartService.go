package services

import (
	"context"
	"fmt"
	"sync"

	"boothStore/entities"
	"boothStore/models"
	"boothStore/repository"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// cartLockStripes bounds the number of session locks regardless of how many
// sessions are seen.
const cartLockStripes = 64

// CartService serves session carts. Storage is the only copy of a cart: every
// call restores it from the repository, so expiry and purges there are
// observed on the next request.
type CartService struct {
	catalog   *CatalogService
	cr        repository.CartRepository
	namespace string
	log       *zap.Logger

	locks [cartLockStripes]sync.Mutex
}

func NewCartService(catalog *CatalogService, cartRepo repository.CartRepository, namespace string, logger *zap.Logger) *CartService {
	return &CartService{
		catalog:   catalog,
		cr:        cartRepo,
		namespace: namespace,
		log:       logger,
	}
}

// CartKey is the storage key of a cart session, "<namespace>:<sessionId>".
func (cs *CartService) CartKey(cartSessionId string) string {
	return cs.namespace + ":" + cartSessionId
}

func (cs *CartService) CreateCartSession() string {
	return uuid.NewString()
}

func (cs *CartService) sessionLock(cartSessionId string) *sync.Mutex {
	return &cs.locks[xxhash.Sum64String(cartSessionId)%cartLockStripes]
}

// view restores the session cart for reading. An unreadable cart reads as empty.
func (cs *CartService) view(ctx context.Context, cartSessionId string) *CartStore {
	return NewCartStore(ctx, cs.cr, cs.CartKey(cartSessionId), cs.log)
}

// update restores the session cart and applies fn to it. Updates of one
// session are serialized within the process. A cart that cannot be read is
// not written, so a storage hiccup never overwrites it with a partial one.
func (cs *CartService) update(ctx context.Context, cartSessionId string, fn func(*CartStore)) (err error) {
	mu := cs.sessionLock(cartSessionId)
	mu.Lock()
	defer mu.Unlock()

	s, e := LoadCartStore(ctx, cs.cr, cs.CartKey(cartSessionId), cs.log)
	if e != nil {
		cs.log.Error("cart load", zap.String("key", s.Key()), zap.Error(e))
		err = models.ErrServerError
		return
	}
	fn(s)
	return
}

func (cs *CartService) AddCartItem(ctx context.Context, cartSessionId string, req entities.CartRequest) (err error) {
	p, e := cs.catalog.GetProduct(ctx, req.ProductId)
	if e != nil {
		cs.log.Info("AddCartItem: unknown product", zap.String("productId", req.ProductId))
		err = fmt.Errorf("%w: unknown product %q", models.ErrBadRequest, req.ProductId)
		return
	}
	if p.Status == models.StatusUnavailable {
		err = fmt.Errorf("%w: product %q is unavailable", models.ErrNotAllowed, p.Id)
		return
	}
	if len(req.CustomizationIds) > 0 && !p.IsCustomizable {
		err = fmt.Errorf("%w: product %q is not customizable", models.ErrNotAllowed, p.Id)
		return
	}
	opts := make([]models.CustomizationOption, 0, len(req.CustomizationIds))
	for _, id := range req.CustomizationIds {
		o, ok := p.Option(id)
		if !ok {
			err = fmt.Errorf("%w: unknown customization %q for product %q", models.ErrBadRequest, id, p.Id)
			return
		}
		opts = append(opts, o)
	}
	return cs.update(ctx, cartSessionId, func(s *CartStore) {
		s.AddItem(ctx, p, opts...)
	})
}

func (cs *CartService) RemoveCartItem(ctx context.Context, cartSessionId string, productId string) error {
	return cs.update(ctx, cartSessionId, func(s *CartStore) {
		s.RemoveItem(ctx, productId)
	})
}

func (cs *CartService) UpdateQuantity(ctx context.Context, cartSessionId string, productId string, quantity int) error {
	return cs.update(ctx, cartSessionId, func(s *CartStore) {
		s.UpdateQuantity(ctx, productId, quantity)
	})
}

func (cs *CartService) ClearCart(ctx context.Context, cartSessionId string) error {
	return cs.update(ctx, cartSessionId, func(s *CartStore) {
		s.Clear(ctx)
	})
}

// Checkout empties the session cart and returns what it held.
func (cs *CartService) Checkout(ctx context.Context, cartSessionId string) (items []entities.CartItem, total decimal.Decimal, err error) {
	err = cs.update(ctx, cartSessionId, func(s *CartStore) {
		items, total = s.Checkout(ctx)
	})
	return
}

func (cs *CartService) ItemCount(ctx context.Context, cartSessionId string) int {
	return cs.view(ctx, cartSessionId).ItemCount()
}

func (cs *CartService) GetCartItems(ctx context.Context, cartSessionId string) entities.CartResponse {
	s := cs.view(ctx, cartSessionId)
	return CartResponse(s.Items(), s.ItemCount(), FormatMoney(s.Total()))
}

// CartResponse renders line items for display, rounding money to cents.
func CartResponse(items []entities.CartItem, count int, total string) entities.CartResponse {
	return entities.CartResponse{
		Items:     cartLines(items),
		ItemCount: count,
		Total:     total,
	}
}

func cartLines(items []entities.CartItem) []entities.CartLine {
	lines := make([]entities.CartLine, 0, len(items))
	for _, it := range items {
		names := make([]string, 0, len(it.SelectedCustomizations))
		for _, o := range it.SelectedCustomizations {
			names = append(names, o.Name)
		}
		lines = append(lines, entities.CartLine{
			ProductId:      it.Product.Id,
			Name:           it.Product.Name,
			ImageUrl:       it.Product.PrimaryImage(),
			Quantity:       it.Quantity,
			UnitPrice:      FormatMoney(UnitCost(it.Product.Price, it.SelectedCustomizations)),
			PriceType:      it.Product.PriceType,
			Customizations: names,
			LineTotal:      FormatMoney(it.LineTotal),
		})
	}
	return lines
}
