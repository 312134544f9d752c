package cart

import (
	"context"
	"errors"
	"log"

	"petmarket/internal/cache"
	"petmarket/internal/config"
	"petmarket/internal/domain"
	cartrepo "petmarket/internal/repository/cart"
)

// Owner identifies who a cart belongs to: a logged-in customer or a guest.
type Owner struct {
	CustomerID string
	GuestID    string
}

func (o Owner) key() string {
	if o.CustomerID != "" {
		return o.CustomerID
	}
	return o.GuestID
}

func (o Owner) valid() bool {
	return o.CustomerID != "" || o.GuestID != ""
}

type couponValidator interface {
	Validate(ctx context.Context, code string, subtotal int64) (int64, error)
}

type petGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Pet, error)
}

type Service struct {
	repo    cartrepo.Repository
	pets    petGetter
	coupons couponValidator
	cache   cache.CartCache
	pricing config.PricingConfig
	logger  *log.Logger
}

func New(repo cartrepo.Repository, pets petGetter, coupons couponValidator, c cache.CartCache, pricing config.PricingConfig, logger *log.Logger) *Service {
	return &Service{repo: repo, pets: pets, coupons: coupons, cache: c, pricing: pricing, logger: logger}
}

// Get returns the owner's active cart, creating an empty one on first use.
func (s *Service) Get(ctx context.Context, owner Owner) (*domain.Cart, error) {
	if !owner.valid() {
		return nil, domain.ErrNotFound
	}
	if cached, err := s.cache.Get(ctx, owner.key()); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Printf("cart cache read: %v", err)
	}

	cart, err := s.fetchActive(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.create(ctx, owner)
		}
		return nil, err
	}
	s.fillCache(ctx, owner, cart)
	return cart, nil
}

// AddItem merges qty into an existing line for the pet, or appends a line.
func (s *Service) AddItem(ctx context.Context, owner Owner, petID string, qty int) (*domain.Cart, error) {
	if qty <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.New("pet not found")
		}
		return nil, err
	}

	cart, err := s.fetchOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddLine(ctx, cart.ID, *pet, qty); err != nil {
		return nil, err
	}
	return s.reload(ctx, owner, cart.ID)
}

// ChangeQuantity sets a line's quantity, flooring at 1. Use RemoveItem to
// drop a line.
func (s *Service) ChangeQuantity(ctx context.Context, owner Owner, lineID string, qty int) (*domain.Cart, error) {
	if qty < 1 {
		qty = 1
	}
	cart, err := s.fetchActive(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetLineQuantity(ctx, cart.ID, lineID, qty); err != nil {
		return nil, err
	}
	return s.reload(ctx, owner, cart.ID)
}

func (s *Service) RemoveItem(ctx context.Context, owner Owner, lineID string) (*domain.Cart, error) {
	cart, err := s.fetchActive(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveLine(ctx, cart.ID, lineID); err != nil {
		return nil, err
	}
	return s.reload(ctx, owner, cart.ID)
}

// Merge hands a guest's active cart to the customer they just logged in as.
// When the customer already has an active cart, the guest's lines are folded
// into it instead, keeping one active cart per owner. Nothing to merge is not
// an error.
func (s *Service) Merge(ctx context.Context, guestID, customerID string) error {
	if guestID == "" {
		return nil
	}
	guestCart, err := s.repo.GetActiveByGuest(ctx, guestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	existing, err := s.repo.GetActiveByCustomer(ctx, customerID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if _, err := s.repo.AssignCustomerToGuest(ctx, guestID, customerID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	case err != nil:
		return err
	default:
		for _, l := range guestCart.Lines {
			snapshot := domain.Pet{ID: l.PetID, Name: l.Name, Price: l.UnitPrice, Images: l.Images, SellerID: l.SellerID}
			if err := s.repo.AddLine(ctx, existing.ID, snapshot, l.Quantity); err != nil {
				return err
			}
		}
		if err := s.repo.Delete(ctx, guestCart.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}

	s.dropCache(ctx, guestID)
	s.dropCache(ctx, customerID)
	return nil
}

// Quote is the priced view of a cart.
type Quote struct {
	ItemsPrice  int64 `json:"itemsPrice"`
	ShippingFee int64 `json:"shippingFee"`
	Discount    int64 `json:"discount"`
	Total       int64 `json:"total"`
}

// ShippingFee is a step function: flat fee below the free-shipping threshold,
// free at or above it. An empty cart ships nothing.
func (s *Service) ShippingFee(itemsPrice int64) int64 {
	if itemsPrice == 0 || itemsPrice >= s.pricing.FreeShipThreshold {
		return 0
	}
	return s.pricing.ShippingFlatFee
}

// PriceQuote computes totals for the owner's cart, applying couponCode when
// given. The total is clamped at zero; a discount can never push it negative.
func (s *Service) PriceQuote(ctx context.Context, owner Owner, couponCode string) (*Quote, error) {
	cart, err := s.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.QuoteCart(ctx, cart, couponCode)
}

// QuoteCart prices an already loaded cart.
func (s *Service) QuoteCart(ctx context.Context, cart *domain.Cart, couponCode string) (*Quote, error) {
	items := cart.ItemsPrice()
	shipping := s.ShippingFee(items)

	var discount int64
	if couponCode != "" {
		d, err := s.coupons.Validate(ctx, couponCode, items)
		if err != nil {
			return nil, err
		}
		discount = d
	}

	total := items + shipping - discount
	if total < 0 {
		total = 0
	}
	return &Quote{ItemsPrice: items, ShippingFee: shipping, Discount: discount, Total: total}, nil
}

func (s *Service) fetchActive(ctx context.Context, owner Owner) (*domain.Cart, error) {
	if owner.CustomerID != "" {
		return s.repo.GetActiveByCustomer(ctx, owner.CustomerID)
	}
	if owner.GuestID != "" {
		return s.repo.GetActiveByGuest(ctx, owner.GuestID)
	}
	return nil, domain.ErrNotFound
}

func (s *Service) fetchOrCreate(ctx context.Context, owner Owner) (*domain.Cart, error) {
	cart, err := s.fetchActive(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.create(ctx, owner)
}

func (s *Service) create(ctx context.Context, owner Owner) (*domain.Cart, error) {
	if !owner.valid() {
		return nil, domain.ErrNotFound
	}
	in := cartrepo.CreateCartInput{}
	if owner.CustomerID != "" {
		in.CustomerID = &owner.CustomerID
	} else {
		in.GuestID = &owner.GuestID
	}
	cart, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.fillCache(ctx, owner, cart)
	return cart, nil
}

func (s *Service) reload(ctx context.Context, owner Owner, cartID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	s.fillCache(ctx, owner, cart)
	return cart, nil
}

func (s *Service) fillCache(ctx context.Context, owner Owner, cart *domain.Cart) {
	if err := s.cache.Set(ctx, owner.key(), cart); err != nil {
		s.logger.Printf("cart cache write: %v", err)
	}
}

func (s *Service) dropCache(ctx context.Context, ownerKey string) {
	if ownerKey == "" {
		return
	}
	if err := s.cache.Delete(ctx, ownerKey); err != nil {
		s.logger.Printf("cart cache drop: %v", err)
	}
}

// DropCache removes the owner's cached cart, e.g. after checkout closed it.
func (s *Service) DropCache(ctx context.Context, owner Owner) {
	s.dropCache(ctx, owner.key())
}
