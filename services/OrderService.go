package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"boothStore/entities"
	"boothStore/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DateLayout is the wire format of form dates.
const DateLayout = "2006-01-02"

const OrderStatusPending = "pending"

// CongressLookup resolves congress ids for order requests.
type CongressLookup interface {
	GetCongress(id string) (models.Congress, bool)
}

type OrderService struct {
	carts      *CartService
	congresses CongressLookup
	log        *zap.Logger
	now        func() time.Time
}

// NewOrderService accepts a nil congress lookup, in which case any non-empty
// congress id is accepted.
func NewOrderService(carts *CartService, congresses CongressLookup, logger *zap.Logger) *OrderService {
	return &OrderService{
		carts:      carts,
		congresses: congresses,
		log:        logger,
		now:        time.Now,
	}
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	return t, err == nil
}

// ValidateOrderRequest checks an order form. The returned dates are only
// meaningful when the error is nil.
func (ors *OrderService) ValidateOrderRequest(req models.OrderRequest) (start, end time.Time, err error) {
	verr := &models.ValidationError{}
	if strings.TrimSpace(req.CongressId) == "" {
		verr.Add("congressId", "Please select a congress")
	} else if ors.congresses != nil {
		if _, ok := ors.congresses.GetCongress(req.CongressId); !ok {
			verr.Add("congressId", "Please select a congress")
		}
	}
	if strings.TrimSpace(req.RequestedBy) == "" {
		verr.Add("requestedBy", "Please enter your name and title")
	}
	start, okStart := parseDate(req.StartDate)
	if !okStart {
		verr.Add("startDate", "Please select a start date")
	}
	end, okEnd := parseDate(req.EndDate)
	if !okEnd {
		verr.Add("endDate", "Please select an end date")
	}
	if okStart && okEnd && start.After(end) {
		verr.Set("endDate", "End date must be after start date")
	}
	err = verr.Err()
	return
}

// PlaceOrder turns the session cart into a pending order and empties the cart.
// Orders are logged, not stored.
func (ors *OrderService) PlaceOrder(ctx context.Context, cartSessionId string, req models.OrderRequest) (order entities.Order, err error) {
	start, end, e := ors.ValidateOrderRequest(req)
	if e != nil {
		err = e
		return
	}
	items, total, e := ors.carts.Checkout(ctx, cartSessionId)
	if e != nil {
		err = e
		return
	}
	if len(items) == 0 {
		err = fmt.Errorf("%w: cart is empty", models.ErrBadRequest)
		return
	}

	order = entities.Order{
		OrderId:               uuid.NewString(),
		Status:                OrderStatusPending,
		RequestDate:           ors.now().UTC(),
		CongressId:            req.CongressId,
		RequestedBy:           strings.TrimSpace(req.RequestedBy),
		StartDate:             start,
		EndDate:               end,
		CustomizationRequests: strings.TrimSpace(req.CustomizationRequests),
		Lines:                 cartLines(items),
		Total:                 FormatMoney(total),
	}

	ors.log.Info("order placed",
		zap.String("orderId", order.OrderId),
		zap.String("congressId", order.CongressId),
		zap.String("requestedBy", order.RequestedBy),
		zap.Int("lines", len(order.Lines)),
		zap.String("total", order.Total),
	)
	return
}
