package pet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"petmarket/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const petColumns = `id::text, seller_id::text, category_id::text, name, sku, price, gender, city, description, images, stock, created_at`

func scanPet(row pgx.Row) (*domain.Pet, error) {
	var p domain.Pet
	if err := row.Scan(&p.ID, &p.SellerID, &p.CategoryID, &p.Name, &p.SKU, &p.Price, &p.Gender, &p.City, &p.Description, &p.Images, &p.Stock, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Pet, int, error) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		p := arg("%" + kw + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}
	if len(f.CategoryIDs) > 0 {
		conds = append(conds, fmt.Sprintf("category_id = ANY(%s::uuid[])", arg(f.CategoryIDs)))
	}
	if f.SellerID != "" {
		conds = append(conds, fmt.Sprintf("seller_id = %s", arg(f.SellerID)))
	}
	if f.PriceMin > 0 {
		conds = append(conds, fmt.Sprintf("price >= %s", arg(f.PriceMin)))
	}
	if f.PriceMax > 0 {
		conds = append(conds, fmt.Sprintf("price <= %s", arg(f.PriceMax)))
	}
	if f.Gender != "" {
		conds = append(conds, fmt.Sprintf("gender = %s", arg(f.Gender)))
	}
	if f.City != "" {
		conds = append(conds, fmt.Sprintf("city = %s", arg(f.City)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM pets "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := orderClause(f.Sort)
	limit := f.Limit
	if limit <= 0 {
		limit = 12
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	q := fmt.Sprintf("SELECT %s FROM pets %s %s LIMIT %s OFFSET %s",
		petColumns, where, order, arg(limit), arg((page-1)*limit))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Pet
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// orderClause owns the sort semantics behind the opaque sort keys the client
// passes through. Unknown keys sort as newest.
func orderClause(sort string) string {
	switch sort {
	case domain.SortOldest:
		return "ORDER BY created_at ASC"
	case domain.SortPriceAsc:
		return "ORDER BY price ASC, created_at DESC"
	case domain.SortPriceDesc:
		return "ORDER BY price DESC, created_at DESC"
	default:
		return "ORDER BY created_at DESC"
	}
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Pet, error) {
	p, err := scanPet(r.pool.QueryRow(ctx, "SELECT "+petColumns+" FROM pets WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Pet) (*domain.Pet, error) {
	const q = `
INSERT INTO pets (seller_id, category_id, name, sku, price, gender, city, description, images, stock)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id::text, created_at
`
	out := p
	err := r.pool.QueryRow(ctx, q, p.SellerID, p.CategoryID, p.Name, p.SKU, p.Price, p.Gender, p.City, p.Description, p.Images, p.Stock).
		Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Pet) (*domain.Pet, error) {
	const q = `
UPDATE pets
SET category_id = $2, name = $3, price = $4, gender = $5, city = $6, description = $7, images = $8, stock = $9
WHERE id = $1
RETURNING seller_id::text, sku, created_at
`
	out := p
	err := r.pool.QueryRow(ctx, q, p.ID, p.CategoryID, p.Name, p.Price, p.Gender, p.City, p.Description, p.Images, p.Stock).
		Scan(&out.SellerID, &out.SKU, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
