package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solenne-shop/solenne-backend/pkg/db/models"
	"github.com/solenne-shop/solenne-backend/pkg/pagination"
)

// Repository wires together product, variant, and attribute persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func productPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Labels", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("AttributeLinks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("AttributeLinks.Attribute").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Variants.Options").
		Preload("Variants.Options.AttributeValue").
		Preload("Variants.Options.AttributeValue.Attribute")
}

// FindByID loads the product with every association the admin detail needs.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := productPreloads(r.db.WithContext(ctx)).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads the product with associations by its storefront slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := productPreloads(r.db.WithContext(ctx)).First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row without associations.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Variants", "Labels", "AttributeLinks").Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves the scalar product columns.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Variants", "Labels", "AttributeLinks").Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product; variants, labels, and links follow via FK
// cascade.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// ReplaceLabels swaps the product's badge rows.
func (r *Repository) ReplaceLabels(ctx context.Context, productID uuid.UUID, labels []models.ProductLabel) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductLabel{}).Error; err != nil {
		return err
	}
	if len(labels) == 0 {
		return nil
	}
	return tx.Create(&labels).Error
}

// ReplaceAttributeLinks swaps which attribute axes apply to the product.
func (r *Repository) ReplaceAttributeLinks(ctx context.Context, productID uuid.UUID, links []models.ProductAttribute) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductAttribute{}).Error; err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}
	return tx.Create(&links).Error
}

// ListVariants returns the product's variants ordered by creation.
func (r *Repository) ListVariants(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error) {
	var rows []models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// SaveVariant inserts or updates one variant row.
func (r *Repository) SaveVariant(ctx context.Context, variant *models.ProductVariant) error {
	return r.db.WithContext(ctx).Omit("Options").Save(variant).Error
}

// DeleteVariants removes the given variant rows; options cascade.
func (r *Repository) DeleteVariants(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.ProductVariant{}).Error
}

// ReplaceVariantOptions swaps the option rows of one variant.
func (r *Repository) ReplaceVariantOptions(ctx context.Context, variantID uuid.UUID, options []models.ProductVariantOption) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("variant_id = ?", variantID).Delete(&models.ProductVariantOption{}).Error; err != nil {
		return err
	}
	if len(options) == 0 {
		return nil
	}
	return tx.Create(&options).Error
}

// FindSKUConflicts returns the SKUs among the candidates already claimed by a
// variant of a different product. Comparison is case-insensitive on the
// trimmed value.
func (r *Repository) FindSKUConflicts(ctx context.Context, productID uuid.UUID, skus []string) ([]string, error) {
	if len(skus) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(skus))
	for _, sku := range skus {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(sku)))
	}

	var conflicts []string
	err := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("product_id <> ?", productID).
		Where("LOWER(TRIM(sku)) IN ?", lowered).
		Pluck("sku", &conflicts).
		Error
	if err != nil {
		return nil, err
	}
	return conflicts, nil
}

type ProductListQuery struct {
	Pagination pagination.Params
	Filters    ProductListFilters
	// PublishedOnly restricts the listing to storefront-visible products.
	PublishedOnly bool
}

type productSummaryRecord struct {
	models.Product
	VariantCount int
	TotalStock   int
	ImageURL     string
}

// ListProducts returns one page of products plus the exact total.
func (r *Repository) ListProducts(ctx context.Context, query ProductListQuery) (*ProductListResult, error) {
	params := query.Pagination.Normalize()

	base := r.db.WithContext(ctx).Model(&models.Product{}).Table("products p")
	base = applyProductFilters(base, query.Filters)
	if query.PublishedOnly {
		base = base.Where("p.published = ?", true)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("p.id").Count(&total).Error; err != nil {
		return nil, err
	}

	qb := base.Session(&gorm.Session{}).
		Select(strings.Join([]string{
			"p.*",
			"(SELECT COUNT(*) FROM product_variants v WHERE v.product_id = p.id) AS variant_count",
			"(SELECT COALESCE(SUM(v.stock), 0) FROM product_variants v WHERE v.product_id = p.id) AS total_stock",
			"(SELECT v.image_url FROM product_variants v WHERE v.product_id = p.id AND v.is_featured ORDER BY v.created_at ASC LIMIT 1) AS image_url",
		}, ", ")).
		Group("p.id")

	switch field, dir := parseListSort(query.Filters.Sort); field {
	case "price":
		qb = qb.Order("p.price " + dir).Order("p.id ASC")
	case "title":
		qb = qb.Order("p.title " + dir).Order("p.id ASC")
	case "createdAt":
		qb = qb.Order("p.created_at " + dir).Order("p.id " + dir)
	default:
		qb = qb.Order("p.created_at DESC").Order("p.id DESC")
	}

	var records []productSummaryRecord
	if err := qb.Offset(params.Offset()).Limit(params.Limit).Scan(&records).Error; err != nil {
		return nil, err
	}

	summaries := make([]ProductSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, ProductSummary{
			ID:           record.Product.ID,
			Slug:         record.Product.Slug,
			Title:        record.Product.Title,
			Brand:        record.Product.Brand,
			Price:        record.Product.Price,
			CompareAt:    record.Product.CompareAtPrice,
			Published:    record.Product.Published,
			VariantCount: record.VariantCount,
			TotalStock:   record.TotalStock,
			ImageURL:     firstImage(record.ImageURL),
			CreatedAt:    record.Product.CreatedAt,
			UpdatedAt:    record.Product.UpdatedAt,
		})
	}

	return &ProductListResult{Products: summaries, Total: total}, nil
}

// parseListSort splits a field-direction sort value ("price-desc") into its
// parts. A bare field sorts ascending; unknown fields fall through to the
// newest-first default in the caller's switch.
func parseListSort(raw string) (field, dir string) {
	field = strings.TrimSpace(raw)
	dir = "ASC"
	if i := strings.LastIndex(field, "-"); i >= 0 {
		if strings.EqualFold(field[i+1:], "desc") {
			dir = "DESC"
		}
		field = field[:i]
	}
	return field, dir
}

func applyProductFilters(qb *gorm.DB, filters ProductListFilters) *gorm.DB {
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(p.title) LIKE ? OR LOWER(p.slug) LIKE ? OR LOWER(COALESCE(p.brand, '')) LIKE ?)", pattern, pattern, pattern)
	}
	if sku := strings.TrimSpace(filters.SKU); sku != "" {
		pattern := "%" + strings.ToLower(sku) + "%"
		qb = qb.Where("EXISTS (SELECT 1 FROM product_variants v WHERE v.product_id = p.id AND LOWER(v.sku) LIKE ?)", pattern)
	}
	if filters.MinPrice != nil {
		qb = qb.Where("p.price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		qb = qb.Where("p.price <= ?", *filters.MaxPrice)
	}
	if brand := strings.TrimSpace(filters.Brand); brand != "" {
		qb = qb.Where("LOWER(COALESCE(p.brand, '')) = ?", strings.ToLower(brand))
	}
	for _, categoryID := range filters.CategoryIDs {
		qb = qb.Where("(p.primary_category_id = ? OR CAST(p.category_ids AS TEXT) LIKE ?)", categoryID, "%"+categoryID.String()+"%")
	}
	if len(filters.Colors) > 0 {
		qb = qb.Where(
			"EXISTS (SELECT 1 FROM product_variants v JOIN product_variant_options o ON o.variant_id = v.id WHERE v.product_id = p.id AND LOWER(COALESCE(o.attribute_key, '')) IN ('color', 'colour') AND LOWER(COALESCE(o.value, '')) IN ?)",
			lowerAll(filters.Colors),
		)
	}
	if len(filters.Sizes) > 0 {
		qb = qb.Where(
			"EXISTS (SELECT 1 FROM product_variants v JOIN product_variant_options o ON o.variant_id = v.id WHERE v.product_id = p.id AND LOWER(COALESCE(o.attribute_key, '')) = 'size' AND LOWER(COALESCE(o.value, '')) IN ?)",
			lowerAll(filters.Sizes),
		)
	}
	return qb
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(strings.TrimSpace(v)))
	}
	return out
}

func firstImage(field string) string {
	for _, part := range strings.Split(field, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// FindCategoryByID loads one category row.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// --- attributes ---

// ListAttributes returns every attribute with its values in display order.
func (r *Repository) ListAttributes(ctx context.Context) ([]models.Attribute, error) {
	var rows []models.Attribute
	err := r.db.WithContext(ctx).
		Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("position ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindAttributeByID loads one attribute with its values.
func (r *Repository) FindAttributeByID(ctx context.Context, id uuid.UUID) (*models.Attribute, error) {
	var attribute models.Attribute
	err := r.db.WithContext(ctx).
		Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&attribute, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &attribute, nil
}

// SaveAttribute inserts or updates the attribute row without touching values.
func (r *Repository) SaveAttribute(ctx context.Context, attribute *models.Attribute) error {
	return r.db.WithContext(ctx).Omit("Values").Save(attribute).Error
}

// DeleteAttribute removes an attribute; values cascade.
func (r *Repository) DeleteAttribute(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Attribute{}).Error
}

// SaveAttributeValue inserts or updates one value row.
func (r *Repository) SaveAttributeValue(ctx context.Context, value *models.AttributeValue) error {
	return r.db.WithContext(ctx).Omit("Attribute").Save(value).Error
}

// DeleteAttributeValues removes value rows no longer present in a submission.
func (r *Repository) DeleteAttributeValues(ctx context.Context, attributeID uuid.UUID, keepIDs []uuid.UUID) error {
	qb := r.db.WithContext(ctx).Where("attribute_id = ?", attributeID)
	if len(keepIDs) > 0 {
		qb = qb.Where("id NOT IN ?", keepIDs)
	}
	return qb.Delete(&models.AttributeValue{}).Error
}

// FindAttributeValue locates a value row by its attribute key and value
// string, compared case-insensitively. Used by the image back-fill pass.
func (r *Repository) FindAttributeValue(ctx context.Context, key, value string) (*models.AttributeValue, error) {
	var row models.AttributeValue
	err := r.db.WithContext(ctx).
		Joins("JOIN attributes a ON a.id = attribute_values.attribute_id").
		Where("LOWER(a.key) = ?", strings.ToLower(strings.TrimSpace(key))).
		Where("LOWER(attribute_values.value) = ?", strings.ToLower(strings.TrimSpace(value))).
		First(&row).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindAttributeValueByID loads a value row by primary key.
func (r *Repository) FindAttributeValueByID(ctx context.Context, id uuid.UUID) (*models.AttributeValue, error) {
	var row models.AttributeValue
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateAttributeValueImage sets the image on a value row.
func (r *Repository) UpdateAttributeValueImage(ctx context.Context, id uuid.UUID, imageURL string) error {
	return r.db.WithContext(ctx).
		Model(&models.AttributeValue{}).
		Where("id = ?", id).
		Update("image_url", imageURL).
		Error
}
