package httpserver

import (
	"context"

	"petmarket/internal/catalog"
	"petmarket/internal/domain"
	accountsvc "petmarket/internal/service/account"
	cartsvc "petmarket/internal/service/cart"
	catalogsvc "petmarket/internal/service/catalog"
	couponsvc "petmarket/internal/service/coupon"
	ordersvc "petmarket/internal/service/order"
	petsvc "petmarket/internal/service/pet"
)

// AccountService resolves identities and issues tokens.
type AccountService interface {
	Signup(ctx context.Context, in accountsvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.User, string, string, error)
	IssueGuest(ctx context.Context) (token, guestID string, err error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	LookupGuest(ctx context.Context, token string) (string, error)
	AccessTTLSeconds() int
}

// CatalogService serves the category forest in its storefront and admin shapes.
type CatalogService interface {
	Tree(ctx context.Context) ([]*catalog.Node, error)
	Flat(ctx context.Context) ([]catalog.FlatNode, error)
	Children(ctx context.Context, parentID string) ([]domain.Category, error)
	RootBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Upsert(ctx context.Context, in catalogsvc.UpsertInput) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// PetService covers the storefront listing and seller console CRUD.
type PetService interface {
	List(ctx context.Context, q petsvc.ListQuery) (*petsvc.Page, error)
	Get(ctx context.Context, id string) (*domain.Pet, error)
	Create(ctx context.Context, sellerID string, in petsvc.SaveInput) (*domain.Pet, error)
	Update(ctx context.Context, sellerID, petID string, in petsvc.SaveInput) (*domain.Pet, error)
	Delete(ctx context.Context, sellerID, petID string) error
}

type CartService interface {
	Get(ctx context.Context, owner cartsvc.Owner) (*domain.Cart, error)
	AddItem(ctx context.Context, owner cartsvc.Owner, petID string, qty int) (*domain.Cart, error)
	ChangeQuantity(ctx context.Context, owner cartsvc.Owner, lineID string, qty int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, owner cartsvc.Owner, lineID string) (*domain.Cart, error)
	Merge(ctx context.Context, guestID, customerID string) error
	PriceQuote(ctx context.Context, owner cartsvc.Owner, couponCode string) (*cartsvc.Quote, error)
}

type CouponService interface {
	Validate(ctx context.Context, code string, subtotal int64) (int64, error)
	List(ctx context.Context) ([]domain.Coupon, error)
	Create(ctx context.Context, in couponsvc.CreateInput) (*domain.Coupon, error)
	Delete(ctx context.Context, id string) error
}

type OrderService interface {
	Checkout(ctx context.Context, customerID string, in ordersvc.CheckoutInput) ([]domain.Order, error)
	Advance(ctx context.Context, actor domain.User, orderID, action string) (*domain.Order, error)
	Get(ctx context.Context, actor domain.User, id string) (*domain.Order, error)
	ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ListForSeller(ctx context.Context, sellerID string) ([]domain.Order, error)
}

type ChatService interface {
	Open(ctx context.Context, customerID, sellerID string) (*domain.Conversation, error)
	List(ctx context.Context, userID string) ([]domain.Conversation, error)
	Messages(ctx context.Context, userID, conversationID string, limit int, before string) ([]domain.Message, error)
	Send(ctx context.Context, userID, conversationID, body string) (*domain.Message, error)
	Subscribe(ctx context.Context, userID, conversationID string) (<-chan domain.Message, func(), error)
}

// Deps bundles everything the router needs.
type Deps struct {
	AccountSvc AccountService
	CatalogSvc CatalogService
	PetSvc     PetService
	CartSvc    CartService
	CouponSvc  CouponService
	OrderSvc   OrderService
	ChatSvc    ChatService
}
