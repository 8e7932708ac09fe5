package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/internal/util"
)

type CatalogService struct {
	Repo  *repo.GormRepo
	Index ProductIndex
}

func (s *CatalogService) ListProducts(ctx context.Context, category string, limit, offset int) ([]models.Product, error) {
	limit, offset = util.Page(limit, offset)
	return s.Repo.ListProducts(ctx, category, limit, offset)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	p, err := newProduct(req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.index(ctx, p)
	return p, nil
}

// UpdateProduct replaces every field of the product under the create rules.
// The image URL is kept when the request omits it.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req transport.ProductRequest) (*models.Product, error) {
	next, err := newProduct(req)
	if err != nil {
		return nil, err
	}

	current, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if next.ImageURL == nil {
		next.ImageURL = current.ImageURL
	}
	next.ID = id

	if err := s.Repo.ReplaceProduct(ctx, next); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	updated, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.index(ctx, updated)
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_unindex_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

// SearchProducts uses the full-text index when one is configured and falls
// back to a substring match in the store otherwise.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, limit, offset int) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSearchQueryRequired
	}
	limit, offset = util.Page(limit, offset)

	if s.Index != nil {
		items, err := s.Index.Search(ctx, query, offset, limit)
		if err == nil {
			return items, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "error", err)
	}
	return s.Repo.SearchProducts(ctx, query, limit, offset)
}

func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}
