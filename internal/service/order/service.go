package order

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"petmarket/internal/domain"
	"petmarket/internal/events"
	orderrepo "petmarket/internal/repository/order"
	cartsvc "petmarket/internal/service/cart"
)

var (
	// ErrInvalidTransition is returned for a status change the workflow does
	// not allow from the order's current state.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden is returned when the actor is not a party to the order or
	// the action belongs to the other party.
	ErrForbidden = errors.New("forbidden")
	// ErrEmptyCart is returned when checkout finds nothing to order.
	ErrEmptyCart = errors.New("cart is empty")
)

// Actions a party can invoke on an order.
const (
	ActionConfirm  = "confirm"
	ActionShip     = "ship"
	ActionDeliver  = "deliver"
	ActionComplete = "complete"
	ActionCancel   = "cancel"
)

type cartService interface {
	Get(ctx context.Context, owner cartsvc.Owner) (*domain.Cart, error)
	QuoteCart(ctx context.Context, cart *domain.Cart, couponCode string) (*cartsvc.Quote, error)
	DropCache(ctx context.Context, owner cartsvc.Owner)
}

type Service struct {
	repo      orderrepo.Repository
	carts     cartService
	publisher events.Publisher
	logger    *log.Logger
}

func New(repo orderrepo.Repository, carts cartService, publisher events.Publisher, logger *log.Logger) *Service {
	return &Service{repo: repo, carts: carts, publisher: publisher, logger: logger}
}

type CheckoutInput struct {
	CouponCode string         `json:"couponCode"`
	Address    domain.Address `json:"shippingAddress"`
}

// Checkout turns the customer's active cart into one pending order per
// seller. Stock is decremented and the cart closed in a single transaction.
// The whole-cart discount is spent against the orders in line order, so the
// sum of totals matches the quoted total and no total goes negative.
func (s *Service) Checkout(ctx context.Context, customerID string, in CheckoutInput) ([]domain.Order, error) {
	owner := cartsvc.Owner{CustomerID: customerID}
	cart, err := s.carts.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if strings.TrimSpace(in.Address.FullName) == "" || strings.TrimSpace(in.Address.Street) == "" {
		return nil, errors.New("shipping address required")
	}

	quote, err := s.carts.QuoteCart(ctx, cart, in.CouponCode)
	if err != nil {
		return nil, err
	}

	orders := splitBySeller(customerID, cart, in, quote)
	created, err := s.repo.CreateFromCart(ctx, cart.ID, orders)
	if err != nil {
		return nil, err
	}
	s.carts.DropCache(ctx, owner)

	for _, o := range created {
		s.publish(ctx, o, "", domain.OrderPending)
	}
	return created, nil
}

func splitBySeller(customerID string, cart *domain.Cart, in CheckoutInput, quote *cartsvc.Quote) []domain.Order {
	var sellerIDs []string
	bySeller := make(map[string][]domain.CartLine)
	for _, l := range cart.Lines {
		if _, ok := bySeller[l.SellerID]; !ok {
			sellerIDs = append(sellerIDs, l.SellerID)
		}
		bySeller[l.SellerID] = append(bySeller[l.SellerID], l)
	}

	// Shipping is charged once per checkout, on the first order.
	shippingLeft := quote.ShippingFee
	discountLeft := quote.Discount

	orders := make([]domain.Order, 0, len(sellerIDs))
	for _, sellerID := range sellerIDs {
		lines := bySeller[sellerID]
		o := domain.Order{
			CustomerID: customerID,
			SellerID:   sellerID,
			Status:     domain.OrderPending,
			CouponCode: strings.ToUpper(strings.TrimSpace(in.CouponCode)),
			Address:    in.Address,
		}
		for _, l := range lines {
			image := ""
			if len(l.Images) > 0 {
				image = l.Images[0]
			}
			o.Lines = append(o.Lines, domain.OrderLine{
				PetID:     l.PetID,
				Name:      l.Name,
				UnitPrice: l.UnitPrice,
				Quantity:  l.Quantity,
				Image:     image,
			})
			o.ItemsPrice += l.UnitPrice * int64(l.Quantity)
		}

		o.ShippingFee = shippingLeft
		shippingLeft = 0

		gross := o.ItemsPrice + o.ShippingFee
		if discountLeft >= gross {
			o.Discount = gross
		} else {
			o.Discount = discountLeft
		}
		discountLeft -= o.Discount
		o.Total = gross - o.Discount

		orders = append(orders, o)
	}
	return orders
}

// transition is one allowed edge of the status workflow.
type transition struct {
	from string
	to   string
	role string
}

// The full table: sellers advance the fulfilment chain, the customer confirms
// receipt, and cancellation is open to the customer while pending and to the
// seller while pending or confirmed.
var transitions = map[string][]transition{
	ActionConfirm:  {{domain.OrderPending, domain.OrderConfirmed, domain.RoleSeller}},
	ActionShip:     {{domain.OrderConfirmed, domain.OrderShipping, domain.RoleSeller}},
	ActionDeliver:  {{domain.OrderShipping, domain.OrderDelivered, domain.RoleSeller}},
	ActionComplete: {{domain.OrderDelivered, domain.OrderCompleted, domain.RoleCustomer}},
	ActionCancel: {
		{domain.OrderPending, domain.OrderCancelled, domain.RoleCustomer},
		{domain.OrderPending, domain.OrderCancelled, domain.RoleSeller},
		{domain.OrderConfirmed, domain.OrderCancelled, domain.RoleSeller},
	},
}

// Advance applies one named action on behalf of the actor.
func (s *Service) Advance(ctx context.Context, actor domain.User, orderID, action string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	role, err := partyRole(actor, o)
	if err != nil {
		return nil, err
	}

	edges, ok := transitions[action]
	if !ok {
		return nil, ErrInvalidTransition
	}
	for _, t := range edges {
		if t.role != role || t.from != o.Status {
			continue
		}
		var updated *domain.Order
		if t.to == domain.OrderCancelled {
			updated, err = s.repo.Cancel(ctx, o.ID, t.from)
		} else {
			updated, err = s.repo.SetStatus(ctx, o.ID, t.from, t.to)
		}
		if err != nil {
			// A concurrent transition moved the order first.
			if errors.Is(err, domain.ErrNotFound) {
				return nil, ErrInvalidTransition
			}
			return nil, err
		}
		s.publish(ctx, *updated, t.from, t.to)
		return updated, nil
	}

	// The action exists but not from this status or for this role.
	for _, t := range edges {
		if t.from == o.Status {
			return nil, ErrForbidden
		}
	}
	return nil, ErrInvalidTransition
}

func (s *Service) Get(ctx context.Context, actor domain.User, id string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := partyRole(actor, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) ListForSeller(ctx context.Context, sellerID string) ([]domain.Order, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

// partyRole maps the actor onto their side of the order. Admins read as the
// seller side for workflow purposes.
func partyRole(actor domain.User, o *domain.Order) (string, error) {
	switch {
	case actor.Role == domain.RoleAdmin:
		return domain.RoleSeller, nil
	case actor.ID == o.CustomerID:
		return domain.RoleCustomer, nil
	case actor.ID == o.SellerID:
		return domain.RoleSeller, nil
	default:
		return "", ErrForbidden
	}
}

func (s *Service) publish(ctx context.Context, o domain.Order, from, to string) {
	if s.publisher == nil {
		return
	}
	ev := events.OrderStatusEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		SellerID:   o.SellerID,
		From:       from,
		To:         to,
		At:         time.Now().UTC(),
	}
	// Event delivery must not fail the request.
	if err := s.publisher.PublishOrderStatus(ctx, ev); err != nil {
		s.logger.Printf("publish order status %s->%s for %s: %v", from, to, o.ID, err)
	}
}
