package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/solenne-shop/solenne-backend/pkg/cache"
	"github.com/solenne-shop/solenne-backend/pkg/db"
	"github.com/solenne-shop/solenne-backend/pkg/db/models"
	pkgerrors "github.com/solenne-shop/solenne-backend/pkg/errors"
	"github.com/solenne-shop/solenne-backend/pkg/imagery"
	"github.com/solenne-shop/solenne-backend/pkg/logger"
	"github.com/solenne-shop/solenne-backend/pkg/pagination"
	"github.com/solenne-shop/solenne-backend/pkg/types"
)

// Service exposes admin catalog management operations.
type Service interface {
	ListProducts(ctx context.Context, params pagination.Params, filters ProductListFilters) (*ProductListResult, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDetail, error)
	CreateProduct(ctx context.Context, input SaveProductInput) (*ProductDetail, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input SaveProductInput) (*ProductDetail, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	ListAttributes(ctx context.Context) ([]AttributeDTO, error)
	GetAttribute(ctx context.Context, attributeID uuid.UUID) (*AttributeDTO, error)
	CreateAttribute(ctx context.Context, input SaveAttributeInput) (*AttributeDTO, error)
	UpdateAttribute(ctx context.Context, attributeID uuid.UUID, input SaveAttributeInput) (*AttributeDTO, error)
	DeleteAttribute(ctx context.Context, attributeID uuid.UUID) error
}

// service implements the catalog service.
type service struct {
	repo        *Repository
	dbClient    *db.Client
	revalidator *cache.Revalidator
	logg        *logger.Logger
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client, revalidator *cache.Revalidator, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, revalidator: revalidator, logg: logg}, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ProductListFilters) (*ProductListResult, error) {
	result, err := s.repo.ListProducts(ctx, ProductListQuery{Pagination: params, Filters: filters})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDetail, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDetail(product), nil
}

func (s *service) CreateProduct(ctx context.Context, input SaveProductInput) (*ProductDetail, error) {
	return s.saveProduct(ctx, nil, input)
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input SaveProductInput) (*ProductDetail, error) {
	return s.saveProduct(ctx, &productID, input)
}

// saveProduct runs the whole admin submission in one transaction: scalar
// columns, labels, attribute links, and variant reconciliation. The attribute
// image back-fill and cache revalidation run after commit and never fail the
// request.
func (s *service) saveProduct(ctx context.Context, productID *uuid.UUID, input SaveProductInput) (*ProductDetail, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(input.Price))
	if err != nil || !price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a positive decimal")
	}
	compareAt, err := parseOptionalDecimal(input.CompareAtPrice)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "compareAtPrice must be a decimal")
	}

	slug := strings.TrimSpace(strings.ToLower(input.Slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	var product *models.Product
	if productID != nil {
		product, err = s.repo.FindByID(ctx, *productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
	} else {
		product = &models.Product{ID: uuid.New()}
	}

	requiresSizes, err := s.requiresSizes(ctx, input.PrimaryCategoryID)
	if err != nil {
		return nil, err
	}

	incoming, err := s.resolveVariants(input, slug, requiresSizes)
	if err != nil {
		return nil, err
	}

	skus := make([]string, 0, len(incoming))
	for _, v := range incoming {
		skus = append(skus, v.SKU)
	}
	conflicts, err := s.repo.FindSKUConflicts(ctx, product.ID, skus)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check sku conflicts")
	}
	if len(conflicts) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use by another product").
			WithDetails(map[string]any{"skus": conflicts})
	}

	product.Slug = slug
	product.Title = strings.TrimSpace(input.Title)
	product.Description = input.Description
	product.Brand = input.Brand
	product.CategoryIDs = input.CategoryIDs
	product.PrimaryCategoryID = input.PrimaryCategoryID
	product.Price = price
	product.CompareAtPrice = compareAt
	product.BaseSKU = optionalString(input.BaseSKU)
	product.Published = input.Published

	var saved []models.ProductVariant
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if productID == nil {
			if _, err := txRepo.CreateProduct(ctx, product); err != nil {
				return err
			}
		} else if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			return err
		}

		if err := txRepo.ReplaceLabels(ctx, product.ID, buildLabelRows(product.ID, input.Labels)); err != nil {
			return err
		}
		if err := txRepo.ReplaceAttributeLinks(ctx, product.ID, buildAttributeLinks(product.ID, input.AttributeIDs)); err != nil {
			return err
		}

		var err error
		saved, err = s.reconcileVariants(ctx, txRepo, product.ID, incoming)
		return err
	}); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product slug or sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}

	s.backfillAttributeImages(ctx, saved)
	s.revalidateProduct(ctx, product.Slug)

	detail, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return NewProductDetail(detail), nil
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	s.revalidateProduct(ctx, product.Slug)
	return nil
}

// requiresSizes reports whether the primary category mandates size selection.
func (s *service) requiresSizes(ctx context.Context, categoryID *uuid.UUID) (bool, error) {
	if categoryID == nil {
		return false, nil
	}
	category, err := s.repo.FindCategoryByID(ctx, *categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, pkgerrors.New(pkgerrors.CodeValidation, "primary category does not exist")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category.RequiresSizes, nil
}

// resolveVariants turns the submission into flat variant rows. Explicit rows
// win when the payload carries them; otherwise the color-group form is
// expanded.
func (s *service) resolveVariants(input SaveProductInput, slug string, requiresSizes bool) ([]FlatVariant, error) {
	if len(input.Variants) > 0 {
		return flatFromInputs(input.Variants)
	}
	return BuildVariants(VariantForm{
		ProductSlug:        slug,
		BaseSKU:            input.BaseSKU,
		BasePrice:          input.Price,
		BaseCompareAtPrice: input.CompareAtPrice,
		RequiresSizes:      requiresSizes,
		Colors:             input.Colors,
	})
}

func flatFromInputs(inputs []VariantInput) ([]FlatVariant, error) {
	seen := map[string]struct{}{}
	out := make([]FlatVariant, 0, len(inputs))
	for _, in := range inputs {
		sku := strings.TrimSpace(in.SKU)
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant sku must not be blank")
		}
		key := strings.ToLower(sku)
		if _, dup := seen[key]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate sku %q in submission", sku))
		}
		seen[key] = struct{}{}

		price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
		if err != nil || !price.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("variant %q requires a price greater than zero", sku))
		}
		compareAt, err := parseOptionalDecimal(in.CompareAtPrice)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("variant %q compareAtPrice must be a decimal", sku))
		}
		if in.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("variant %q stock must be non-negative", sku))
		}

		options := make([]OptionKV, 0, len(in.Options))
		for _, opt := range in.Options {
			options = append(options, OptionKV{
				Key:     strings.ToLower(strings.TrimSpace(opt.Key)),
				Value:   strings.TrimSpace(opt.Value),
				ValueID: opt.ValueID,
			})
		}

		out = append(out, FlatVariant{
			ID:             in.ID,
			Color:          strings.TrimSpace(in.Color),
			Size:           strings.TrimSpace(in.Size),
			SKU:            sku,
			Price:          price,
			CompareAtPrice: compareAt,
			Stock:          in.Stock,
			Images:         imagery.Dedupe(in.Images),
			Published:      in.Published,
			Featured:       in.Featured,
			Options:        options,
		})
	}
	return out, nil
}

// reconcileVariants matches incoming rows to stored ones by ID first, then by
// trimmed lowercased SKU, updates matches in place, inserts the rest, and
// deletes stored variants the submission no longer references.
func (s *service) reconcileVariants(ctx context.Context, txRepo *Repository, productID uuid.UUID, incoming []FlatVariant) ([]models.ProductVariant, error) {
	existing, err := txRepo.ListVariants(ctx, productID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*models.ProductVariant, len(existing))
	bySKU := make(map[string]*models.ProductVariant, len(existing))
	for i := range existing {
		byID[existing[i].ID] = &existing[i]
		bySKU[strings.ToLower(strings.TrimSpace(existing[i].SKU))] = &existing[i]
	}

	claimed := map[uuid.UUID]struct{}{}
	saved := make([]models.ProductVariant, 0, len(incoming))
	for _, in := range incoming {
		var target *models.ProductVariant
		if in.ID != nil {
			if match, ok := byID[*in.ID]; ok {
				target = match
			}
		}
		if target == nil {
			if match, ok := bySKU[strings.ToLower(strings.TrimSpace(in.SKU))]; ok {
				if _, taken := claimed[match.ID]; !taken {
					target = match
				}
			}
		}
		if target == nil {
			target = &models.ProductVariant{ID: uuid.New(), ProductID: productID}
		}
		claimed[target.ID] = struct{}{}

		target.SKU = in.SKU
		target.Price = in.Price
		target.CompareAtPrice = in.CompareAtPrice
		target.Stock = in.Stock
		target.ImageURL = imagery.Join(in.Images)
		target.IsFeatured = in.Featured
		target.Published = true
		if in.Published != nil {
			target.Published = *in.Published
		}
		target.Attributes = variantAttributes(in)
		target.Options = nil

		if err := txRepo.SaveVariant(ctx, target); err != nil {
			return nil, err
		}
		if err := txRepo.ReplaceVariantOptions(ctx, target.ID, buildOptionRows(target.ID, in)); err != nil {
			return nil, err
		}
		saved = append(saved, *target)
	}

	var stale []uuid.UUID
	for i := range existing {
		if _, ok := claimed[existing[i].ID]; !ok {
			stale = append(stale, existing[i].ID)
		}
	}
	if err := txRepo.DeleteVariants(ctx, stale); err != nil {
		return nil, err
	}
	return saved, nil
}

func variantAttributes(in FlatVariant) types.JSONMap {
	attrs := types.JSONMap{}
	if in.Color != "" {
		attrs["color"] = in.Color
	}
	if in.Size != "" {
		attrs["size"] = in.Size
	}
	for _, opt := range in.Options {
		if opt.Key == "" || opt.Value == "" {
			continue
		}
		if _, taken := attrs[opt.Key]; !taken {
			attrs[opt.Key] = opt.Value
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func buildOptionRows(variantID uuid.UUID, in FlatVariant) []models.ProductVariantOption {
	var rows []models.ProductVariantOption
	literal := func(key, value string) {
		rows = append(rows, models.ProductVariantOption{
			ID:           uuid.New(),
			VariantID:    variantID,
			AttributeKey: &key,
			Value:        &value,
		})
	}
	if in.Color != "" {
		literal("color", in.Color)
	}
	if in.Size != "" {
		literal("size", in.Size)
	}
	for _, opt := range in.Options {
		if opt.ValueID != nil {
			rows = append(rows, models.ProductVariantOption{
				ID:               uuid.New(),
				VariantID:        variantID,
				AttributeValueID: opt.ValueID,
			})
			continue
		}
		if opt.Key == "" || opt.Value == "" {
			continue
		}
		if (opt.Key == "color" && in.Color != "") || (opt.Key == "size" && in.Size != "") {
			// Already emitted from the dedicated fields.
			continue
		}
		literal(opt.Key, opt.Value)
	}
	return rows
}

func buildLabelRows(productID uuid.UUID, inputs []LabelInput) []models.ProductLabel {
	rows := make([]models.ProductLabel, 0, len(inputs))
	for i, in := range inputs {
		rows = append(rows, models.ProductLabel{
			ID:              uuid.New(),
			ProductID:       productID,
			Text:            strings.TrimSpace(in.Text),
			BackgroundColor: in.BackgroundColor,
			TextColor:       in.TextColor,
			Position:        i,
		})
	}
	return rows
}

func buildAttributeLinks(productID uuid.UUID, attributeIDs []uuid.UUID) []models.ProductAttribute {
	rows := make([]models.ProductAttribute, 0, len(attributeIDs))
	for i, attributeID := range attributeIDs {
		rows = append(rows, models.ProductAttribute{
			ID:          uuid.New(),
			ProductID:   productID,
			AttributeID: attributeID,
			Position:    i,
		})
	}
	return rows
}

// backfillAttributeImages copies a variant photo onto attribute values that
// have none yet. Color axes are skipped (their imagery is the swatch), as are
// swatch-only values. Failures are logged and never surfaced.
func (s *service) backfillAttributeImages(ctx context.Context, variants []models.ProductVariant) {
	for _, variant := range variants {
		images := imagery.Split(variant.ImageURL)
		if len(images) == 0 {
			continue
		}
		for key, raw := range variant.Attributes {
			lowered := strings.ToLower(strings.TrimSpace(key))
			if lowered == "color" || lowered == "colour" {
				continue
			}
			value, ok := raw.(string)
			if !ok || strings.TrimSpace(value) == "" {
				continue
			}
			row, err := s.repo.FindAttributeValue(ctx, key, value)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					s.logg.Warn(s.logg.WithField(ctx, "attribute_key", key), "attribute image backfill lookup failed")
				}
				continue
			}
			if row.ImageURL != nil && strings.TrimSpace(*row.ImageURL) != "" {
				continue
			}
			if len(row.Colors) > 0 {
				// Swatch-only value; a product photo would override the chips.
				continue
			}
			if err := s.repo.UpdateAttributeValueImage(ctx, row.ID, images[0]); err != nil {
				s.logg.Error(ctx, "attribute image backfill failed", err)
			}
		}
	}
}

// revalidateProduct drops the cached storefront pages touched by a catalog
// write. Errors are handled inside the revalidator.
func (s *service) revalidateProduct(ctx context.Context, slug string) {
	if s.revalidator == nil {
		return
	}
	s.revalidator.RevalidatePath(ctx, "/products/"+slug)
	s.revalidator.RevalidatePath(ctx, "/products")
	s.revalidator.RevalidateTag(ctx, "products")
	s.revalidator.RevalidateTag(ctx, "product:"+slug)
}

func (s *service) ListAttributes(ctx context.Context) ([]AttributeDTO, error) {
	rows, err := s.repo.ListAttributes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attributes")
	}
	out := make([]AttributeDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, newAttributeDTO(row))
	}
	return out, nil
}

func (s *service) GetAttribute(ctx context.Context, attributeID uuid.UUID) (*AttributeDTO, error) {
	row, err := s.repo.FindAttributeByID(ctx, attributeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "attribute not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attribute")
	}
	dto := newAttributeDTO(*row)
	return &dto, nil
}

func (s *service) CreateAttribute(ctx context.Context, input SaveAttributeInput) (*AttributeDTO, error) {
	return s.saveAttribute(ctx, nil, input)
}

func (s *service) UpdateAttribute(ctx context.Context, attributeID uuid.UUID, input SaveAttributeInput) (*AttributeDTO, error) {
	return s.saveAttribute(ctx, &attributeID, input)
}

func (s *service) saveAttribute(ctx context.Context, attributeID *uuid.UUID, input SaveAttributeInput) (*AttributeDTO, error) {
	key := strings.ToLower(strings.TrimSpace(input.Key))
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "attribute key is required")
	}

	var attribute *models.Attribute
	if attributeID != nil {
		var err error
		attribute, err = s.repo.FindAttributeByID(ctx, *attributeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "attribute not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attribute")
		}
	} else {
		attribute = &models.Attribute{ID: uuid.New()}
	}

	attribute.Key = key
	attribute.Name = strings.TrimSpace(input.Name)
	attribute.Position = input.Position

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.SaveAttribute(ctx, attribute); err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(input.Values))
		for i, in := range input.Values {
			row := models.AttributeValue{
				ID:          uuid.New(),
				AttributeID: attribute.ID,
			}
			if in.ID != nil {
				row.ID = *in.ID
			}
			row.Value = strings.TrimSpace(in.Value)
			row.Label = in.Label
			row.ImageURL = in.ImageURL
			row.Colors = in.Colors
			row.Position = i
			if err := txRepo.SaveAttributeValue(ctx, &row); err != nil {
				return err
			}
			keep = append(keep, row.ID)
		}
		return txRepo.DeleteAttributeValues(ctx, attribute.ID, keep)
	}); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "attribute key already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save attribute")
	}

	return s.GetAttribute(ctx, attribute.ID)
}

func (s *service) DeleteAttribute(ctx context.Context, attributeID uuid.UUID) error {
	if _, err := s.repo.FindAttributeByID(ctx, attributeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "attribute not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attribute")
	}
	if err := s.repo.DeleteAttribute(ctx, attributeID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete attribute")
	}
	return nil
}

func parseOptionalDecimal(raw string) (*decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func optionalString(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
