package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/solenne-shop/solenne-backend/api/responses"
	"github.com/solenne-shop/solenne-backend/api/validators"
	"github.com/solenne-shop/solenne-backend/internal/catalog"
	storefrontsvc "github.com/solenne-shop/solenne-backend/internal/storefront"
	"github.com/solenne-shop/solenne-backend/pkg/cache"
	pkgerrors "github.com/solenne-shop/solenne-backend/pkg/errors"
	"github.com/solenne-shop/solenne-backend/pkg/logger"
	"github.com/solenne-shop/solenne-backend/pkg/types"
)

// ListStorefrontProducts serves the public catalog listing. Cached pages are
// keyed by path+query and dropped whenever an admin write revalidates the
// products tag.
func ListStorefrontProducts(svc storefrontsvc.Service, revalidator *cache.Revalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		cachePath := r.URL.Path
		if r.URL.RawQuery != "" {
			cachePath += "?" + r.URL.RawQuery
		}
		if serveCached(r.Context(), revalidator, w, cachePath) {
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := parseProductFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meta := params.Meta(result.Total)
		storeCached(r.Context(), revalidator, cachePath,
			types.SuccessEnvelope{Data: result.Products, Meta: &meta}, "products")
		responses.WriteSuccessPage(w, result.Products, meta)
	}
}

// GetStorefrontProduct serves the public product detail by slug.
func GetStorefrontProduct(svc storefrontsvc.Service, revalidator *cache.Revalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing product slug"))
			return
		}

		cachePath := r.URL.Path
		if serveCached(r.Context(), revalidator, w, cachePath) {
			return
		}

		detail, err := svc.GetProduct(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeCached(r.Context(), revalidator, cachePath,
			types.SuccessEnvelope{Data: detail}, "products", "product:"+slug)
		responses.WriteSuccess(w, detail)
	}
}

// MatchStorefrontVariant resolves which variant to display for a selection.
func MatchStorefrontVariant(svc storefrontsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing product slug"))
			return
		}

		var payload storefrontsvc.MatchInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Match(r.Context(), slug, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func serveCached(ctx context.Context, revalidator *cache.Revalidator, w http.ResponseWriter, path string) bool {
	if revalidator == nil {
		return false
	}
	payload, ok := revalidator.Lookup(ctx, path)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "HIT")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(payload))
	return true
}

func storeCached(ctx context.Context, revalidator *cache.Revalidator, path string, envelope types.SuccessEnvelope, tags ...string) {
	if revalidator == nil {
		return
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return
	}
	_ = revalidator.StorePage(ctx, path, string(raw), tags...)
}

func parseProductFilters(r *http.Request) (catalog.ProductListFilters, error) {
	q := r.URL.Query()
	filters := catalog.ProductListFilters{
		Search: validators.SanitizeString(q.Get("search"), 200),
		SKU:    validators.SanitizeString(q.Get("sku"), 100),
		Brand:  validators.SanitizeString(q.Get("brand"), 100),
		Sort:   validators.SanitizeString(q.Get("sort"), 40),
	}

	// categories and its singular alias feed the same filter.
	categoryParams := append(splitCSV(q.Get("categories")), splitCSV(q.Get("category"))...)
	for _, raw := range categoryParams {
		id, err := parseUUIDParam(raw, "categories")
		if err != nil {
			return catalog.ProductListFilters{}, err
		}
		filters.CategoryIDs = append(filters.CategoryIDs, id)
	}
	filters.Colors = splitCSV(q.Get("colors"))
	filters.Sizes = splitCSV(q.Get("sizes"))

	if raw := strings.TrimSpace(q.Get("minPrice")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return catalog.ProductListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "minPrice must be a number")
		}
		filters.MinPrice = &price
	}
	if raw := strings.TrimSpace(q.Get("maxPrice")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return catalog.ProductListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "maxPrice must be a number")
		}
		filters.MaxPrice = &price
	}
	return filters, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
