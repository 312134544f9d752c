package cart

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"petmarket/internal/cache"
	"petmarket/internal/config"
	"petmarket/internal/domain"
	cartrepo "petmarket/internal/repository/cart"
)

type stubRepo struct {
	carts      map[string]*domain.Cart
	activeByID map[string]string // owner key -> cart id
	nextLineID int
	createErr  error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		carts:      map[string]*domain.Cart{},
		activeByID: map[string]string{},
	}
}

func (s *stubRepo) Create(_ context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	id := "cart-" + itoa(len(s.carts)+1)
	cart := &domain.Cart{ID: id, CustomerID: in.CustomerID, GuestID: in.GuestID, State: domain.CartStateActive, Lines: []domain.CartLine{}}
	s.carts[id] = cart
	if in.CustomerID != nil {
		s.activeByID[*in.CustomerID] = id
	} else if in.GuestID != nil {
		s.activeByID[*in.GuestID] = id
	}
	return copyCart(cart), nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Cart, error) {
	c, ok := s.carts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyCart(c), nil
}

func (s *stubRepo) GetActiveByCustomer(_ context.Context, customerID string) (*domain.Cart, error) {
	return s.activeFor(customerID)
}

func (s *stubRepo) GetActiveByGuest(_ context.Context, guestID string) (*domain.Cart, error) {
	return s.activeFor(guestID)
}

func (s *stubRepo) activeFor(key string) (*domain.Cart, error) {
	id, ok := s.activeByID[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyCart(s.carts[id]), nil
}

func (s *stubRepo) AssignCustomerToGuest(_ context.Context, guestID, customerID string) (*domain.Cart, error) {
	id, ok := s.activeByID[guestID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(s.activeByID, guestID)
	s.activeByID[customerID] = id
	s.carts[id].CustomerID = &customerID
	s.carts[id].GuestID = nil
	return copyCart(s.carts[id]), nil
}

func (s *stubRepo) AddLine(_ context.Context, cartID string, pet domain.Pet, quantity int) error {
	cart, ok := s.carts[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range cart.Lines {
		if cart.Lines[i].PetID == pet.ID {
			cart.Lines[i].Quantity += quantity
			return nil
		}
	}
	s.nextLineID++
	cart.Lines = append(cart.Lines, domain.CartLine{
		ID:        "line-" + itoa(s.nextLineID),
		CartID:    cartID,
		PetID:     pet.ID,
		Name:      pet.Name,
		UnitPrice: pet.Price,
		Quantity:  quantity,
		SellerID:  pet.SellerID,
	})
	return nil
}

func (s *stubRepo) SetLineQuantity(_ context.Context, cartID, lineID string, quantity int) error {
	cart, ok := s.carts[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range cart.Lines {
		if cart.Lines[i].ID == lineID {
			cart.Lines[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *stubRepo) RemoveLine(_ context.Context, cartID, lineID string) error {
	cart, ok := s.carts[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range cart.Lines {
		if cart.Lines[i].ID == lineID {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *stubRepo) Close(_ context.Context, cartID string) error {
	cart, ok := s.carts[cartID]
	if !ok || cart.State != domain.CartStateActive {
		return domain.ErrNotFound
	}
	cart.State = domain.CartStateOrdered
	return nil
}

func (s *stubRepo) Delete(_ context.Context, cartID string) error {
	if _, ok := s.carts[cartID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.carts, cartID)
	for key, id := range s.activeByID {
		if id == cartID {
			delete(s.activeByID, key)
		}
	}
	return nil
}

func copyCart(c *domain.Cart) *domain.Cart {
	out := *c
	out.Lines = append([]domain.CartLine{}, c.Lines...)
	return &out
}

func itoa(n int) string {
	digits := "0123456789"
	if n < 10 {
		return string(digits[n])
	}
	return string(digits[n/10]) + string(digits[n%10])
}

type stubPets struct {
	pets map[string]domain.Pet
}

func (s *stubPets) GetByID(_ context.Context, id string) (*domain.Pet, error) {
	p, ok := s.pets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type stubCoupons struct {
	discount int64
	err      error
}

func (s *stubCoupons) Validate(_ context.Context, _ string, _ int64) (int64, error) {
	return s.discount, s.err
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*domain.Cart, error) { return nil, cache.ErrCacheMiss }
func (noopCache) Set(context.Context, string, *domain.Cart) error   { return nil }
func (noopCache) Delete(context.Context, string) error              { return nil }

func newService(repo cartrepo.Repository, pets *stubPets, coupons *stubCoupons) *Service {
	logger := log.New(os.Stdout, "[test] ", log.LstdFlags)
	pricing := config.PricingConfig{ShippingFlatFee: 30000, FreeShipThreshold: 500000}
	return New(repo, pets, coupons, noopCache{}, pricing, logger)
}

func TestAddItem_MergesQuantities(t *testing.T) {
	repo := newStubRepo()
	pets := &stubPets{pets: map[string]domain.Pet{
		"p1": {ID: "p1", Name: "Corgi", Price: 100000, SellerID: "s1"},
	}}
	svc := newService(repo, pets, &stubCoupons{})
	owner := Owner{CustomerID: "u1"}

	if _, err := svc.AddItem(context.Background(), owner, "p1", 1); err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err := svc.AddItem(context.Background(), owner, "p1", 1)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", cart.Lines[0].Quantity)
	}
}

func TestAddItem_UnknownPet(t *testing.T) {
	svc := newService(newStubRepo(), &stubPets{pets: map[string]domain.Pet{}}, &stubCoupons{})

	if _, err := svc.AddItem(context.Background(), Owner{CustomerID: "u1"}, "ghost", 1); err == nil {
		t.Fatalf("expected error for unknown pet")
	}
}

func TestChangeQuantity_FloorsAtOne(t *testing.T) {
	repo := newStubRepo()
	pets := &stubPets{pets: map[string]domain.Pet{
		"p1": {ID: "p1", Name: "Corgi", Price: 100000, SellerID: "s1"},
	}}
	svc := newService(repo, pets, &stubCoupons{})
	owner := Owner{CustomerID: "u1"}

	cart, err := svc.AddItem(context.Background(), owner, "p1", 3)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err = svc.ChangeQuantity(context.Background(), owner, cart.Lines[0].ID, 0)
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if cart.Lines[0].Quantity != 1 {
		t.Fatalf("expected floor at 1, got %d", cart.Lines[0].Quantity)
	}
}

func TestItemsPrice_SumsLines(t *testing.T) {
	cart := domain.Cart{Lines: []domain.CartLine{
		{UnitPrice: 100000, Quantity: 2},
		{UnitPrice: 250000, Quantity: 1},
	}}
	if got := cart.ItemsPrice(); got != 450000 {
		t.Fatalf("items price: got %d", got)
	}
	if got := (domain.Cart{}).ItemsPrice(); got != 0 {
		t.Fatalf("empty cart price: got %d", got)
	}
}

func TestShippingFee_StepFunction(t *testing.T) {
	svc := newService(newStubRepo(), &stubPets{}, &stubCoupons{})

	cases := []struct {
		items int64
		want  int64
	}{
		{0, 0},
		{1, 30000},
		{499999, 30000},
		{500000, 0},
		{900000, 0},
	}
	for _, c := range cases {
		if got := svc.ShippingFee(c.items); got != c.want {
			t.Fatalf("shipping for %d: got %d, want %d", c.items, got, c.want)
		}
	}
}

func TestQuote_ClampsTotalAtZero(t *testing.T) {
	repo := newStubRepo()
	pets := &stubPets{pets: map[string]domain.Pet{
		"p1": {ID: "p1", Name: "Corgi", Price: 100000, SellerID: "s1"},
	}}
	// Discount far exceeds subtotal plus shipping.
	svc := newService(repo, pets, &stubCoupons{discount: 1000000})
	owner := Owner{CustomerID: "u1"}

	if _, err := svc.AddItem(context.Background(), owner, "p1", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	q, err := svc.PriceQuote(context.Background(), owner, "BIGSALE")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.ItemsPrice != 200000 || q.ShippingFee != 30000 || q.Discount != 1000000 {
		t.Fatalf("unexpected quote %+v", q)
	}
	if q.Total != 0 {
		t.Fatalf("total must clamp at zero, got %d", q.Total)
	}
}

func TestQuote_CouponErrorPropagates(t *testing.T) {
	repo := newStubRepo()
	pets := &stubPets{pets: map[string]domain.Pet{
		"p1": {ID: "p1", Name: "Corgi", Price: 100000, SellerID: "s1"},
	}}
	couponErr := errors.New("invalid coupon")
	svc := newService(repo, pets, &stubCoupons{err: couponErr})
	owner := Owner{CustomerID: "u1"}

	if _, err := svc.AddItem(context.Background(), owner, "p1", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.PriceQuote(context.Background(), owner, "NOPE"); !errors.Is(err, couponErr) {
		t.Fatalf("expected coupon error, got %v", err)
	}
}

func TestMerge_HandsGuestCartToCustomer(t *testing.T) {
	repo := newStubRepo()
	pets := &stubPets{pets: map[string]domain.Pet{
		"p1": {ID: "p1", Name: "Corgi", Price: 100000, SellerID: "s1"},
	}}
	svc := newService(repo, pets, &stubCoupons{})

	if _, err := svc.AddItem(context.Background(), Owner{GuestID: "g1"}, "p1", 1); err != nil {
		t.Fatalf("guest add: %v", err)
	}
	if err := svc.Merge(context.Background(), "g1", "u1"); err != nil {
		t.Fatalf("merge: %v", err)
	}
	cart, err := svc.Get(context.Background(), Owner{CustomerID: "u1"})
	if err != nil {
		t.Fatalf("get after merge: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].PetID != "p1" {
		t.Fatalf("expected merged cart, got %+v", cart)
	}
}

func TestMerge_FoldsIntoExistingCustomerCart(t *testing.T) {
	repo := newStubRepo()
	pets := &stubPets{pets: map[string]domain.Pet{
		"p1": {ID: "p1", Name: "Corgi", Price: 100000, SellerID: "s1"},
		"p2": {ID: "p2", Name: "Betta", Price: 50000, SellerID: "s2"},
	}}
	svc := newService(repo, pets, &stubCoupons{})

	if _, err := svc.AddItem(context.Background(), Owner{CustomerID: "u1"}, "p1", 1); err != nil {
		t.Fatalf("customer add: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), Owner{GuestID: "g1"}, "p1", 2); err != nil {
		t.Fatalf("guest add p1: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), Owner{GuestID: "g1"}, "p2", 1); err != nil {
		t.Fatalf("guest add p2: %v", err)
	}

	if err := svc.Merge(context.Background(), "g1", "u1"); err != nil {
		t.Fatalf("merge: %v", err)
	}

	cart, err := svc.Get(context.Background(), Owner{CustomerID: "u1"})
	if err != nil {
		t.Fatalf("get after merge: %v", err)
	}
	qty := map[string]int{}
	for _, l := range cart.Lines {
		qty[l.PetID] = l.Quantity
	}
	if len(cart.Lines) != 2 || qty["p1"] != 3 || qty["p2"] != 1 {
		t.Fatalf("expected folded lines p1x3 and p2x1, got %+v", cart.Lines)
	}

	// The guest cart is gone, not left active alongside the customer's.
	if _, err := repo.GetActiveByGuest(context.Background(), "g1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("guest cart should be removed, got %v", err)
	}
	if len(repo.carts) != 1 {
		t.Fatalf("expected a single surviving cart, got %d", len(repo.carts))
	}
}

func TestMerge_NoGuestCartIsNoop(t *testing.T) {
	svc := newService(newStubRepo(), &stubPets{}, &stubCoupons{})

	if err := svc.Merge(context.Background(), "g-none", "u1"); err != nil {
		t.Fatalf("merge without guest cart: %v", err)
	}
}
