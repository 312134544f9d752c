package pet

import (
	"context"
	"errors"
	"strings"

	"petmarket/internal/catalog"
	"petmarket/internal/domain"
	petrepo "petmarket/internal/repository/pet"
)

// ErrForbidden is returned when a seller touches another seller's listing.
var ErrForbidden = errors.New("forbidden")

type categoryLister interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type Service struct {
	repo       petrepo.Repository
	categories categoryLister
}

func New(repo petrepo.Repository, categories categoryLister) *Service {
	return &Service{repo: repo, categories: categories}
}

// ListQuery is the bag of storefront filter state. DetailCategoryIDs, when
// present, win over CategoryID; CategoryID alone selects its whole subtree.
type ListQuery struct {
	Keyword           string
	CategoryID        string
	DetailCategoryIDs []string
	SellerID          string
	PriceMin          int64
	PriceMax          int64
	Gender            string
	City              string
	Sort              string
	Page              int
	Limit             int
}

type Page struct {
	Items []domain.Pet `json:"items"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Pages int          `json:"pages"`
}

func (s *Service) List(ctx context.Context, q ListQuery) (*Page, error) {
	filter := petrepo.ListFilter{
		Keyword:  q.Keyword,
		SellerID: q.SellerID,
		PriceMin: q.PriceMin,
		PriceMax: q.PriceMax,
		Gender:   q.Gender,
		City:     q.City,
		Sort:     q.Sort,
		Page:     q.Page,
		Limit:    q.Limit,
	}

	switch {
	case len(q.DetailCategoryIDs) > 0:
		filter.CategoryIDs = q.DetailCategoryIDs
	case q.CategoryID != "":
		all, err := s.categories.List(ctx)
		if err != nil {
			return nil, err
		}
		filter.CategoryIDs = catalog.SubtreeIDs(all, q.CategoryID)
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 12
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Pet{}
	}

	pages := total / filter.Limit
	if total%filter.Limit != 0 {
		pages++
	}
	return &Page{Items: items, Total: total, Page: filter.Page, Pages: pages}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Pet, error) {
	return s.repo.GetByID(ctx, id)
}

type SaveInput struct {
	CategoryID  string   `json:"categoryId"`
	Name        string   `json:"name"`
	SKU         string   `json:"sku"`
	Price       int64    `json:"price"`
	Gender      string   `json:"gender"`
	City        string   `json:"city"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
}

func (s *Service) Create(ctx context.Context, sellerID string, in SaveInput) (*domain.Pet, error) {
	if err := validateSave(in); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.Pet{
		SellerID:    sellerID,
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		SKU:         strings.TrimSpace(in.SKU),
		Price:       in.Price,
		Gender:      in.Gender,
		City:        in.City,
		Description: in.Description,
		Images:      in.Images,
		Stock:       in.Stock,
	})
}

// Update rewrites a listing. Sellers may only touch their own; admins bypass
// the ownership check with an empty sellerID.
func (s *Service) Update(ctx context.Context, sellerID, petID string, in SaveInput) (*domain.Pet, error) {
	if err := validateSave(in); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if sellerID != "" && existing.SellerID != sellerID {
		return nil, ErrForbidden
	}
	return s.repo.Update(ctx, domain.Pet{
		ID:          petID,
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Gender:      in.Gender,
		City:        in.City,
		Description: in.Description,
		Images:      in.Images,
		Stock:       in.Stock,
	})
}

func (s *Service) Delete(ctx context.Context, sellerID, petID string) error {
	existing, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	if sellerID != "" && existing.SellerID != sellerID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, petID)
}

func validateSave(in SaveInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("name required")
	}
	if in.CategoryID == "" {
		return errors.New("categoryId required")
	}
	if in.Price < 0 {
		return errors.New("price must not be negative")
	}
	if in.Stock < 0 {
		return errors.New("stock must not be negative")
	}
	return nil
}
