package order

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"petmarket/internal/domain"
	"petmarket/internal/events"
	cartsvc "petmarket/internal/service/cart"
)

type stubOrderRepo struct {
	orders     map[string]*domain.Order
	nextID     int
	cartClosed string
	createErr  error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: map[string]*domain.Order{}}
}

func (s *stubOrderRepo) CreateFromCart(_ context.Context, cartID string, orders []domain.Order) ([]domain.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.cartClosed = cartID
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		s.nextID++
		o.ID = "o" + string(rune('0'+s.nextID))
		o.Status = domain.OrderPending
		stored := o
		s.orders[o.ID] = &stored
		out = append(out, o)
	}
	return out, nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *stubOrderRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) ListBySeller(_ context.Context, sellerID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.orders {
		if o.SellerID == sellerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) SetStatus(_ context.Context, id, from, to string) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok || o.Status != from {
		return nil, domain.ErrNotFound
	}
	o.Status = to
	cp := *o
	return &cp, nil
}

func (s *stubOrderRepo) Cancel(_ context.Context, id, from string) (*domain.Order, error) {
	return s.SetStatus(nil, id, from, domain.OrderCancelled)
}

type stubCarts struct {
	cart *domain.Cart
	err  error
}

func (s *stubCarts) Get(_ context.Context, _ cartsvc.Owner) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCarts) QuoteCart(_ context.Context, cart *domain.Cart, couponCode string) (*cartsvc.Quote, error) {
	items := cart.ItemsPrice()
	var shipping int64
	if items > 0 && items < 500000 {
		shipping = 30000
	}
	var discount int64
	if couponCode != "" {
		discount = 50000
	}
	total := items + shipping - discount
	if total < 0 {
		total = 0
	}
	return &cartsvc.Quote{ItemsPrice: items, ShippingFee: shipping, Discount: discount, Total: total}, nil
}

func (s *stubCarts) DropCache(_ context.Context, _ cartsvc.Owner) {}

type recordingPublisher struct {
	events []events.OrderStatusEvent
}

func (p *recordingPublisher) PublishOrderStatus(_ context.Context, ev events.OrderStatusEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func testLogger() *log.Logger {
	return log.New(os.Stdout, "[test] ", log.LstdFlags)
}

func twoSellerCart() *domain.Cart {
	return &domain.Cart{
		ID:    "cart-1",
		State: domain.CartStateActive,
		Lines: []domain.CartLine{
			{ID: "l1", PetID: "p1", Name: "Corgi", UnitPrice: 100000, Quantity: 2, SellerID: "s1"},
			{ID: "l2", PetID: "p2", Name: "Leash", UnitPrice: 50000, Quantity: 1, SellerID: "s2"},
		},
	}
}

func checkoutInput() CheckoutInput {
	return CheckoutInput{Address: domain.Address{FullName: "A Buyer", Phone: "0123", Street: "1 Main St", City: "Hanoi"}}
}

func TestCheckout_SplitsPerSeller(t *testing.T) {
	repo := newStubOrderRepo()
	pub := &recordingPublisher{}
	svc := New(repo, &stubCarts{cart: twoSellerCart()}, pub, testLogger())

	orders, err := svc.Checkout(context.Background(), "u1", checkoutInput())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected one order per seller, got %d", len(orders))
	}
	if orders[0].SellerID != "s1" || orders[1].SellerID != "s2" {
		t.Fatalf("unexpected seller split: %+v", orders)
	}
	if orders[0].ItemsPrice != 200000 || orders[1].ItemsPrice != 50000 {
		t.Fatalf("unexpected items prices: %d, %d", orders[0].ItemsPrice, orders[1].ItemsPrice)
	}
	// Shipping is charged once, on the first order.
	if orders[0].ShippingFee != 30000 || orders[1].ShippingFee != 0 {
		t.Fatalf("unexpected shipping: %d, %d", orders[0].ShippingFee, orders[1].ShippingFee)
	}
	if repo.cartClosed != "cart-1" {
		t.Fatalf("cart was not closed")
	}
	if len(pub.events) != 2 {
		t.Fatalf("expected 2 pending events, got %d", len(pub.events))
	}
}

func TestCheckout_DiscountSpentInOrder(t *testing.T) {
	repo := newStubOrderRepo()
	svc := New(repo, &stubCarts{cart: twoSellerCart()}, &recordingPublisher{}, testLogger())

	orders, err := svc.Checkout(context.Background(), "u1", CheckoutInput{
		CouponCode: "SAVE",
		Address:    checkoutInput().Address,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	// 50000 discount is consumed by the first order entirely.
	if orders[0].Discount != 50000 || orders[1].Discount != 0 {
		t.Fatalf("unexpected discounts: %d, %d", orders[0].Discount, orders[1].Discount)
	}
	var sum int64
	for _, o := range orders {
		if o.Total < 0 {
			t.Fatalf("negative total %d", o.Total)
		}
		sum += o.Total
	}
	if sum != 200000+50000+30000-50000 {
		t.Fatalf("order totals do not add up: %d", sum)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc := New(newStubOrderRepo(), &stubCarts{cart: &domain.Cart{ID: "c", Lines: nil}}, &recordingPublisher{}, testLogger())

	if _, err := svc.Checkout(context.Background(), "u1", checkoutInput()); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func seedOrder(repo *stubOrderRepo, status string) *domain.Order {
	o := &domain.Order{ID: "o1", CustomerID: "cust", SellerID: "sel", Status: status}
	repo.orders["o1"] = o
	return o
}

func TestAdvance_HappyPath(t *testing.T) {
	repo := newStubOrderRepo()
	seedOrder(repo, domain.OrderPending)
	pub := &recordingPublisher{}
	svc := New(repo, &stubCarts{}, pub, testLogger())

	seller := domain.User{ID: "sel", Role: domain.RoleSeller}
	customer := domain.User{ID: "cust", Role: domain.RoleCustomer}

	steps := []struct {
		actor domain.User
		act   string
		want  string
	}{
		{seller, ActionConfirm, domain.OrderConfirmed},
		{seller, ActionShip, domain.OrderShipping},
		{seller, ActionDeliver, domain.OrderDelivered},
		{customer, ActionComplete, domain.OrderCompleted},
	}
	for _, st := range steps {
		o, err := svc.Advance(context.Background(), st.actor, "o1", st.act)
		if err != nil {
			t.Fatalf("%s: %v", st.act, err)
		}
		if o.Status != st.want {
			t.Fatalf("%s: got status %s, want %s", st.act, o.Status, st.want)
		}
	}
	if len(pub.events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(pub.events))
	}
	if pub.events[0].From != domain.OrderPending || pub.events[0].To != domain.OrderConfirmed {
		t.Fatalf("unexpected first event %+v", pub.events[0])
	}
}

func TestAdvance_CustomerCannotConfirm(t *testing.T) {
	repo := newStubOrderRepo()
	seedOrder(repo, domain.OrderPending)
	svc := New(repo, &stubCarts{}, &recordingPublisher{}, testLogger())

	customer := domain.User{ID: "cust", Role: domain.RoleCustomer}
	if _, err := svc.Advance(context.Background(), customer, "o1", ActionConfirm); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAdvance_CancelRules(t *testing.T) {
	customer := domain.User{ID: "cust", Role: domain.RoleCustomer}
	seller := domain.User{ID: "sel", Role: domain.RoleSeller}

	cases := []struct {
		name   string
		status string
		actor  domain.User
		ok     bool
	}{
		{"customer cancels pending", domain.OrderPending, customer, true},
		{"seller cancels pending", domain.OrderPending, seller, true},
		{"seller cancels confirmed", domain.OrderConfirmed, seller, true},
		{"customer cannot cancel confirmed", domain.OrderConfirmed, customer, false},
		{"nobody cancels shipping", domain.OrderShipping, seller, false},
		{"nobody cancels delivered", domain.OrderDelivered, customer, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			repo := newStubOrderRepo()
			seedOrder(repo, c.status)
			svc := New(repo, &stubCarts{}, &recordingPublisher{}, testLogger())

			o, err := svc.Advance(context.Background(), c.actor, "o1", ActionCancel)
			if c.ok {
				if err != nil {
					t.Fatalf("expected cancel to succeed: %v", err)
				}
				if o.Status != domain.OrderCancelled {
					t.Fatalf("expected cancelled, got %s", o.Status)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected cancel to fail from %s", c.status)
			}
		})
	}
}

func TestAdvance_StrangerForbidden(t *testing.T) {
	repo := newStubOrderRepo()
	seedOrder(repo, domain.OrderPending)
	svc := New(repo, &stubCarts{}, &recordingPublisher{}, testLogger())

	stranger := domain.User{ID: "nobody", Role: domain.RoleCustomer}
	if _, err := svc.Advance(context.Background(), stranger, "o1", ActionCancel); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAdvance_InvalidFromStatus(t *testing.T) {
	repo := newStubOrderRepo()
	seedOrder(repo, domain.OrderCompleted)
	svc := New(repo, &stubCarts{}, &recordingPublisher{}, testLogger())

	seller := domain.User{ID: "sel", Role: domain.RoleSeller}
	if _, err := svc.Advance(context.Background(), seller, "o1", ActionConfirm); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestAdvance_AdminActsAsSellerSide(t *testing.T) {
	repo := newStubOrderRepo()
	seedOrder(repo, domain.OrderPending)
	svc := New(repo, &stubCarts{}, &recordingPublisher{}, testLogger())

	admin := domain.User{ID: "root", Role: domain.RoleAdmin}
	o, err := svc.Advance(context.Background(), admin, "o1", ActionConfirm)
	if err != nil {
		t.Fatalf("admin confirm: %v", err)
	}
	if o.Status != domain.OrderConfirmed {
		t.Fatalf("expected confirmed, got %s", o.Status)
	}
}
