package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solenne-shop/solenne-backend/internal/catalog"
	"github.com/solenne-shop/solenne-backend/pkg/db/models"
	pkgerrors "github.com/solenne-shop/solenne-backend/pkg/errors"
	"github.com/solenne-shop/solenne-backend/pkg/logger"
	"github.com/solenne-shop/solenne-backend/pkg/pagination"
)

// MatchInput is a shopper's attribute selection for one product. Keys are
// attribute keys; a selection entry may instead reference an attribute value
// ID, which takes priority when the stored option carries one too.
type MatchInput struct {
	Values   map[string]string `json:"selection"`
	ValueIDs map[string]string `json:"selectionIds,omitempty"`
}

// MatchResult is the displayed variant plus per-value availability for every
// attribute the product's variants carry.
type MatchResult struct {
	Variant      *catalog.VariantDTO       `json:"variant"`
	Availability map[string]map[string]int `json:"availability"`
}

type Service interface {
	ListProducts(ctx context.Context, params pagination.Params, filters catalog.ProductListFilters) (*catalog.ProductListResult, error)
	GetProduct(ctx context.Context, slug string) (*catalog.ProductDetail, error)
	Match(ctx context.Context, slug string, input MatchInput) (*MatchResult, error)
}

type service struct {
	repo   *catalog.Repository
	logger *logger.Logger
}

func NewService(repo *catalog.Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("storefront service requires a catalog repository")
	}
	if logg == nil {
		return nil, fmt.Errorf("storefront service requires a logger")
	}
	return &service{repo: repo, logger: logg}, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters catalog.ProductListFilters) (*catalog.ProductListResult, error) {
	result, err := s.repo.ListProducts(ctx, catalog.ProductListQuery{
		Pagination:    params,
		Filters:       filters,
		PublishedOnly: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list products")
	}
	return result, nil
}

func (s *service) GetProduct(ctx context.Context, slug string) (*catalog.ProductDetail, error) {
	product, err := s.loadPublished(ctx, slug)
	if err != nil {
		return nil, err
	}
	return catalog.NewProductDetail(product), nil
}

func (s *service) Match(ctx context.Context, slug string, input MatchInput) (*MatchResult, error) {
	product, err := s.loadPublished(ctx, slug)
	if err != nil {
		return nil, err
	}

	selection, err := parseSelection(input)
	if err != nil {
		return nil, err
	}

	result := &MatchResult{Availability: availability(product.Variants, selection)}
	if matched := MatchVariant(product.Variants, selection); matched != nil {
		dto := catalog.NewVariantDTO(*matched)
		result.Variant = &dto
	}
	return result, nil
}

func (s *service) loadPublished(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load product")
	}
	if !product.Published {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func parseSelection(input MatchInput) (Selection, error) {
	selection := Selection{Values: map[string]string{}}
	for key, value := range input.Values {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		selection.Values[key] = value
	}
	if len(input.ValueIDs) > 0 {
		selection.ValueIDs = map[string]uuid.UUID{}
		for key, raw := range input.ValueIDs {
			key = strings.ToLower(strings.TrimSpace(key))
			if key == "" {
				continue
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				return Selection{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid value id for %q", key))
			}
			selection.ValueIDs[key] = id
		}
	}
	return selection, nil
}

// availability reports, for every attribute key the variants carry, how much
// stock each candidate value has under the rest of the selection.
func availability(variants []models.ProductVariant, selection Selection) map[string]map[string]int {
	candidates := map[string]map[string]struct{}{}
	for _, variant := range variants {
		for _, view := range variantOptions(variant) {
			if strings.TrimSpace(view.value) == "" {
				continue
			}
			if candidates[view.key] == nil {
				candidates[view.key] = map[string]struct{}{}
			}
			candidates[view.key][view.value] = struct{}{}
		}
	}

	out := make(map[string]map[string]int, len(candidates))
	for key, values := range candidates {
		out[key] = make(map[string]int, len(values))
		for value := range values {
			out[key][value] = StockFor(variants, key, value, selection)
		}
	}
	return out
}
