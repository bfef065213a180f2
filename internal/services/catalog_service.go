package services

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/infra"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var maxRating = decimal.NewFromInt(5)

// ProductQuery is the public listing filter. CategorySlug is resolved to an id
// before querying.
type ProductQuery struct {
	CategorySlug string
	Featured     bool
	New          bool
	Promo        bool
}

func (q ProductQuery) cacheKey() string {
	return fmt.Sprintf("c=%s&f=%t&n=%t&p=%t", q.CategorySlug, q.Featured, q.New, q.Promo)
}

type CategoryInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type CategoryPatch struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

type ProductInput struct {
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice"`
	Stock         int64               `json:"stock"`
	ImageURL      string              `json:"imageUrl"`
	CategoryID    uint64              `json:"categoryId"`
	Featured      bool                `json:"featured"`
	IsNew         bool                `json:"isNew"`
	Rating        decimal.Decimal     `json:"rating"`
	NumReviews    int64               `json:"numReviews"`
}

// ProductPatch changes only the fields that are set. ClearDiscount removes the
// discount price.
type ProductPatch struct {
	Name          *string          `json:"name"`
	Slug          *string          `json:"slug"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice"`
	ClearDiscount bool             `json:"clearDiscount"`
	Stock         *int64           `json:"stock"`
	ImageURL      *string          `json:"imageUrl"`
	CategoryID    *uint64          `json:"categoryId"`
	Featured      *bool            `json:"featured"`
	IsNew         *bool            `json:"isNew"`
	Rating        *decimal.Decimal `json:"rating"`
	NumReviews    *int64           `json:"numReviews"`
}

type CatalogService struct {
	store repository.Store
	cache infra.ProductCache
}

// NewCatalogService builds the service. cache may be nil, in which case every
// read goes to the store.
func NewCatalogService(store repository.Store, cache infra.ProductCache) *CatalogService {
	return &CatalogService{store: store, cache: cache}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.store.Categories().List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	c, err := s.store.Categories().FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFoundf("category %q", slug)
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, ident domain.Identity, in CategoryInput) (*domain.Category, error) {
	if err := ident.RequireAdmin(); err != nil {
		return nil, err
	}

	c := &domain.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        strings.TrimSpace(in.Slug),
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if err := validateCategory(c); err != nil {
		return nil, err
	}

	if err := s.store.Categories().Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCategory applies patch. The slug can only change while no product
// belongs to the category.
func (s *CatalogService) UpdateCategory(ctx context.Context, ident domain.Identity, id uint64, patch CategoryPatch) (*domain.Category, error) {
	if err := ident.RequireAdmin(); err != nil {
		return nil, err
	}

	c, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFoundf("category %d", id)
	}

	if patch.Slug != nil && strings.TrimSpace(*patch.Slug) != c.Slug {
		n, err := s.store.Categories().CountProducts(ctx, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, domain.Conflictf("category %q still has %d products, its slug cannot change", c.Slug, n)
		}
		c.Slug = strings.TrimSpace(*patch.Slug)
	}
	if patch.Name != nil {
		c.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		c.ImageURL = *patch.ImageURL
	}
	if err := validateCategory(c); err != nil {
		return nil, err
	}

	if err := s.store.Categories().Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, ident domain.Identity, id uint64) error {
	if err := ident.RequireAdmin(); err != nil {
		return err
	}
	if err := s.store.Categories().Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func validateCategory(c *domain.Category) error {
	if c.Name == "" {
		return domain.Invalidf("category name is required")
	}
	if c.Slug == "" {
		return domain.Invalidf("category slug is required")
	}
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) ([]domain.Product, error) {
	load := func(ctx context.Context) ([]domain.Product, error) {
		filter := domain.ProductFilter{Featured: q.Featured, New: q.New, Promo: q.Promo}
		if q.CategorySlug != "" {
			c, err := s.GetCategory(ctx, q.CategorySlug)
			if err != nil {
				return nil, err
			}
			filter.CategoryID = &c.ID
		}
		return s.store.Products().List(ctx, filter)
	}

	if s.cache == nil {
		return load(ctx)
	}
	return s.cache.Products(ctx, q.cacheKey(), load)
}

func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	load := func(ctx context.Context) (*domain.Product, error) {
		return s.store.Products().FindBySlug(ctx, slug)
	}

	var (
		p   *domain.Product
		err error
	)
	if s.cache == nil {
		p, err = load(ctx)
	} else {
		p, err = s.cache.Product(ctx, slug, load)
	}
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFoundf("product %q", slug)
	}
	return p, nil
}

// AdminListProducts reads straight from the store so that stock is current.
func (s *CatalogService) AdminListProducts(ctx context.Context, ident domain.Identity) ([]domain.Product, error) {
	if err := ident.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.store.Products().List(ctx, domain.ProductFilter{})
}

func (s *CatalogService) CreateProduct(ctx context.Context, ident domain.Identity, in ProductInput) (*domain.Product, error) {
	if err := ident.RequireAdmin(); err != nil {
		return nil, err
	}

	p := &domain.Product{
		Name:          strings.TrimSpace(in.Name),
		Slug:          strings.TrimSpace(in.Slug),
		Description:   in.Description,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		Stock:         in.Stock,
		ImageURL:      in.ImageURL,
		CategoryID:    in.CategoryID,
		Featured:      in.Featured,
		IsNew:         in.IsNew,
		Rating:        in.Rating,
		NumReviews:    in.NumReviews,
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}

	if err := s.store.Products().Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

// UpdateProduct applies patch under a row lock, so a stock edit cannot
// interleave with an order decrementing the same product.
func (s *CatalogService) UpdateProduct(ctx context.Context, ident domain.Identity, id uint64, patch ProductPatch) (*domain.Product, error) {
	if err := ident.RequireAdmin(); err != nil {
		return nil, err
	}
	if patch.CategoryID != nil {
		if err := s.requireCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}

	p, err := s.store.Products().Update(ctx, id, func(p *domain.Product) error {
		patch.apply(p)
		return validateProduct(p)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (patch ProductPatch) apply(p *domain.Product) {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Slug != nil {
		p.Slug = strings.TrimSpace(*patch.Slug)
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.ClearDiscount {
		p.DiscountPrice = decimal.NullDecimal{}
	} else if patch.DiscountPrice != nil {
		p.DiscountPrice = decimal.NewNullDecimal(*patch.DiscountPrice)
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.IsNew != nil {
		p.IsNew = *patch.IsNew
	}
	if patch.Rating != nil {
		p.Rating = *patch.Rating
	}
	if patch.NumReviews != nil {
		p.NumReviews = *patch.NumReviews
	}
}

func (s *CatalogService) DeleteProduct(ctx context.Context, ident domain.Identity, id uint64) error {
	if err := ident.RequireAdmin(); err != nil {
		return err
	}
	if err := s.store.Products().Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id uint64) error {
	c, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFoundf("category %d", id)
	}
	return nil
}

func validateProduct(p *domain.Product) error {
	switch {
	case p.Name == "":
		return domain.Invalidf("product name is required")
	case p.Slug == "":
		return domain.Invalidf("product slug is required")
	case p.CategoryID == 0:
		return domain.Invalidf("product category is required")
	case !p.Price.IsPositive():
		return domain.Invalidf("price must be greater than 0")
	case p.DiscountPrice.Valid && !p.DiscountPrice.Decimal.IsPositive():
		return domain.Invalidf("discount price must be greater than 0")
	case p.DiscountPrice.Valid && p.DiscountPrice.Decimal.GreaterThanOrEqual(p.Price):
		return domain.Invalidf("discount price must be lower than price")
	case p.Stock < 0:
		return domain.Invalidf("stock cannot be negative")
	case p.Rating.IsNegative() || p.Rating.GreaterThan(maxRating):
		return domain.Invalidf("rating must be between 0 and 5")
	case p.NumReviews < 0:
		return domain.Invalidf("review count cannot be negative")
	}
	return nil
}

// ExportProducts writes the whole catalog as an xlsx workbook.
func (s *CatalogService) ExportProducts(ctx context.Context, ident domain.Identity, w io.Writer) error {
	products, err := s.AdminListProducts(ctx, ident)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headers := []string{
		"ID", "Name", "Slug", "Price", "DiscountPrice", "Stock",
		"CategoryID", "Featured", "New", "Rating", "NumReviews", "CreatedAt",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Slug)
		row.AddCell().SetFloat(p.Price.InexactFloat64())
		if p.DiscountPrice.Valid {
			row.AddCell().SetFloat(p.DiscountPrice.Decimal.InexactFloat64())
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(p.Stock)
		row.AddCell().SetValue(p.CategoryID)
		row.AddCell().SetValue(p.Featured)
		row.AddCell().SetValue(p.IsNew)
		row.AddCell().SetFloat(p.Rating.InexactFloat64())
		row.AddCell().SetValue(p.NumReviews)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return file.Write(w)
}

// WarmupCache preloads the listings the storefront home page asks for.
func (s *CatalogService) WarmupCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	queries := []ProductQuery{{}, {Featured: true}, {New: true}, {Promo: true}}
	for _, q := range queries {
		if _, err := s.ListProducts(ctx, q); err != nil {
			log.Warn().Err(err).Str("key", q.cacheKey()).Msg("failed to warm up catalog cache")
			continue
		}
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate catalog cache")
	}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify folds accents, lowercases s and joins its alphanumeric runs with
// dashes: "Écouteurs & audio" becomes "ecouteurs-audio".
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(folded), "-"), "-")
}
