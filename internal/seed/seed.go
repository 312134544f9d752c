package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type userSeed struct {
	Email string
	Name  string
	Role  string
	City  string
}

type categorySeed struct {
	Name     string
	Slug     string
	Children []categorySeed
}

type petSeed struct {
	Category    string // category slug
	Seller      string // seller email
	Name        string
	SKU         string
	Price       int64
	Gender      string
	City        string
	Description string
	Stock       int
}

type couponSeed struct {
	Code        string
	Kind        string
	Value       int64
	MinOrder    int64
	MaxDiscount int64
}

// Apply inserts demo data for manual testing. It is idempotent via ON CONFLICT.
// Every seeded account logs in with the same demo password.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("Petmarket1"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	users := []userSeed{
		{Email: "admin@petmarket.local", Name: "Back Office", Role: "admin"},
		{Email: "seller@petmarket.local", Name: "Happy Paws Shop", Role: "seller", City: "Hanoi"},
		{Email: "seller2@petmarket.local", Name: "Aqua World", Role: "seller", City: "Da Nang"},
		{Email: "customer@petmarket.local", Name: "Demo Customer", Role: "customer", City: "Hanoi"},
	}
	userIDs := make(map[string]string, len(users))
	for _, u := range users {
		id, err := ensureUser(ctx, pool, u, string(hash))
		if err != nil {
			return fmt.Errorf("ensure user %s: %w", u.Email, err)
		}
		userIDs[u.Email] = id
	}

	tree := []categorySeed{
		{Name: "Pets", Slug: "pets", Children: []categorySeed{
			{Name: "Dogs", Slug: "dogs", Children: []categorySeed{
				{Name: "Small Breeds", Slug: "small-breeds"},
				{Name: "Large Breeds", Slug: "large-breeds"},
			}},
			{Name: "Cats", Slug: "cats"},
			{Name: "Fish", Slug: "fish"},
		}},
		{Name: "Accessories", Slug: "accessories", Children: []categorySeed{
			{Name: "Food", Slug: "food"},
			{Name: "Toys", Slug: "toys"},
			{Name: "Aquariums", Slug: "aquariums"},
		}},
	}
	categoryIDs := make(map[string]string)
	for _, root := range tree {
		if err := ensureCategoryTree(ctx, pool, root, nil, categoryIDs); err != nil {
			return fmt.Errorf("ensure category %s: %w", root.Slug, err)
		}
	}

	pets := []petSeed{
		{Category: "small-breeds", Seller: "seller@petmarket.local", Name: "Corgi Puppy", SKU: "PET-CORGI-01", Price: 8500000, Gender: "male", City: "Hanoi", Description: "Playful 3-month-old corgi, vaccinated.", Stock: 2},
		{Category: "large-breeds", Seller: "seller@petmarket.local", Name: "Golden Retriever", SKU: "PET-GOLDEN-01", Price: 12000000, Gender: "female", City: "Hanoi", Description: "Friendly golden retriever, 4 months.", Stock: 1},
		{Category: "cats", Seller: "seller@petmarket.local", Name: "British Shorthair", SKU: "PET-BRITISH-01", Price: 6500000, Gender: "female", City: "Hanoi", Description: "Calm blue british shorthair kitten.", Stock: 3},
		{Category: "fish", Seller: "seller2@petmarket.local", Name: "Betta Fish", SKU: "PET-BETTA-01", Price: 150000, City: "Da Nang", Description: "Halfmoon betta, assorted colors.", Stock: 20},
		{Category: "food", Seller: "seller@petmarket.local", Name: "Puppy Kibble 2kg", SKU: "ACC-KIBBLE-2KG", Price: 320000, City: "Hanoi", Description: "Grain-free kibble for puppies.", Stock: 50},
		{Category: "toys", Seller: "seller@petmarket.local", Name: "Rope Tug Toy", SKU: "ACC-ROPE-01", Price: 85000, City: "Hanoi", Description: "Cotton rope toy for medium dogs.", Stock: 40},
		{Category: "aquariums", Seller: "seller2@petmarket.local", Name: "Glass Tank 60L", SKU: "ACC-TANK-60L", Price: 950000, City: "Da Nang", Description: "60 liter tank with LED lid.", Stock: 8},
	}
	for _, p := range pets {
		if err := upsertPet(ctx, pool, userIDs[p.Seller], categoryIDs[p.Category], p); err != nil {
			return fmt.Errorf("upsert pet %s: %w", p.SKU, err)
		}
	}

	coupons := []couponSeed{
		{Code: "WELCOME10", Kind: "percent", Value: 10, MinOrder: 200000, MaxDiscount: 100000},
		{Code: "FREESHIP", Kind: "fixed", Value: 30000, MinOrder: 100000},
	}
	for _, c := range coupons {
		if err := upsertCoupon(ctx, pool, c); err != nil {
			return fmt.Errorf("upsert coupon %s: %w", c.Code, err)
		}
	}

	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, u userSeed, passwordHash string) (string, error) {
	const q = `
INSERT INTO users (email, password_hash, name, role, city)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role, city = EXCLUDED.city
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, u.Email, passwordHash, u.Name, u.Role, u.City).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureCategoryTree(ctx context.Context, pool *pgxpool.Pool, c categorySeed, parentID *string, ids map[string]string) error {
	const q = `
INSERT INTO categories (name, slug, parent_id)
VALUES ($1, $2, $3)
ON CONFLICT (slug, parent_id) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, c.Name, c.Slug, parentID).Scan(&id); err != nil {
		return err
	}
	ids[c.Slug] = id
	for _, child := range c.Children {
		if err := ensureCategoryTree(ctx, pool, child, &id, ids); err != nil {
			return err
		}
	}
	return nil
}

func upsertPet(ctx context.Context, pool *pgxpool.Pool, sellerID, categoryID string, p petSeed) error {
	const q = `
INSERT INTO pets (seller_id, category_id, name, sku, price, gender, city, description, stock)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (sku) DO UPDATE
SET category_id = EXCLUDED.category_id,
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    gender = EXCLUDED.gender,
    city = EXCLUDED.city,
    description = EXCLUDED.description,
    stock = EXCLUDED.stock
`
	_, err := pool.Exec(ctx, q, sellerID, categoryID, p.Name, p.SKU, p.Price, p.Gender, p.City, p.Description, p.Stock)
	return err
}

func upsertCoupon(ctx context.Context, pool *pgxpool.Pool, c couponSeed) error {
	const q = `
INSERT INTO coupons (code, kind, value, min_order, max_discount)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (code) DO UPDATE
SET kind = EXCLUDED.kind,
    value = EXCLUDED.value,
    min_order = EXCLUDED.min_order,
    max_discount = EXCLUDED.max_discount
`
	_, err := pool.Exec(ctx, q, c.Code, c.Kind, c.Value, c.MinOrder, c.MaxDiscount)
	return err
}
