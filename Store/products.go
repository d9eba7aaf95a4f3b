package Store

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"Mandi/Ledger"
	"Mandi/Models"
)

func (s *Store) CreateProduct(ctx context.Context, p *Models.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Ledger.Invalid("name", "is required")
	}
	p.Unit = Models.UnitKg
	err := s.DB.WithContext(ctx).Create(p).Error
	if isDuplicate(err) {
		return Ledger.Conflict("a product named %q already exists", p.Name)
	}
	return classify("create product", err)
}

func (s *Store) GetProduct(ctx context.Context, id uint) (*Models.Product, error) {
	var p Models.Product
	err := s.DB.WithContext(ctx).First(&p, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, Ledger.NotFound("product", id)
	}
	if err != nil {
		return nil, classify("get product", err)
	}
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]Models.Product, error) {
	products := []Models.Product{}
	err := s.DB.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, classify("list products", err)
}

func (s *Store) UpdateProduct(ctx context.Context, id uint, req Models.ProductRequest) (*Models.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, Ledger.Invalid("name", "is required")
	}
	err = s.DB.WithContext(ctx).Model(p).Updates(map[string]interface{}{
		"name":          name,
		"default_price": req.DefaultPrice,
	}).Error
	if isDuplicate(err) {
		return nil, Ledger.Conflict("a product named %q already exists", name)
	}
	if err != nil {
		return nil, classify("update product", err)
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct soft deletes a product that never traded.
func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	var used int64
	if err := s.DB.WithContext(ctx).Model(&Models.TransactionItem{}).Where("product_id = ?", id).Count(&used).Error; err != nil {
		return classify("delete product", err)
	}
	if used > 0 {
		return Ledger.Invalid("id", "product %d appears on %d transaction items", id, used)
	}
	return classify("delete product", s.DB.WithContext(ctx).Delete(p).Error)
}

// ProductPrices returns the unit prices a product traded at, optionally
// only from items recorded since the given time.
func (s *Store) ProductPrices(ctx context.Context, id uint, since *time.Time) ([]decimal.Decimal, error) {
	q := s.DB.WithContext(ctx).Select("unit_price").Where("product_id = ?", id)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	var items []Models.TransactionItem
	if err := q.Find(&items).Error; err != nil {
		return nil, classify("product prices", err)
	}
	prices := make([]decimal.Decimal, len(items))
	for i, it := range items {
		prices[i] = it.UnitPrice
	}
	return prices, nil
}

// SavePriceStats stores computed statistics on the product row.
func (s *Store) SavePriceStats(ctx context.Context, id uint, stats Ledger.PriceStats, at time.Time) error {
	res := s.DB.WithContext(ctx).Model(&Models.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"avg_price":        decimal.NewNullDecimal(stats.Average),
		"min_price":        decimal.NewNullDecimal(stats.Min),
		"max_price":        decimal.NewNullDecimal(stats.Max),
		"median_price":     decimal.NewNullDecimal(stats.Median),
		"mode_price":       decimal.NewNullDecimal(stats.Mode),
		"sample_count":     stats.Samples,
		"stats_updated_at": at,
	})
	if res.Error != nil {
		return classify("save price stats", res.Error)
	}
	if res.RowsAffected == 0 {
		return Ledger.NotFound("product", id)
	}
	return nil
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}
