package catalog

import (
	"context"
	"errors"
	"strings"

	"petmarket/internal/catalog"
	"petmarket/internal/domain"
	categoryrepo "petmarket/internal/repository/category"
)

type Service struct {
	repo categoryrepo.Repository
}

func New(repo categoryrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

// Tree returns the materialized forest for nested pickers.
func (s *Service) Tree(ctx context.Context) ([]*catalog.Node, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Build(all), nil
}

// Flat returns the depth-annotated pre-order listing for the admin tree-table.
func (s *Service) Flat(ctx context.Context) ([]catalog.FlatNode, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Flatten(all), nil
}

// Children returns the direct children of parentID.
func (s *Service) Children(ctx context.Context, parentID string) ([]domain.Category, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.ChildrenOf(all, parentID), nil
}

// RootBySlug resolves a storefront root ("pets", "accessories"). A missing
// slug is ErrNotFound; the handler falls back to the unfiltered listing.
func (s *Service) RootBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	c, ok := catalog.RootBySlug(all, slug)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

type UpsertInput struct {
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	ParentID *string `json:"parentId"`
}

func (s *Service) Upsert(ctx context.Context, in UpsertInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("name required")
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = strings.ReplaceAll(strings.ToLower(name), " ", "-")
	}
	if in.ParentID != nil {
		if _, err := s.repo.GetByID(ctx, *in.ParentID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, errors.New("parent category not found")
			}
			return nil, err
		}
	}
	return s.repo.Upsert(ctx, domain.Category{Name: name, Slug: slug, ParentID: in.ParentID})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
