package Store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"Mandi/Models"
)

// ReplaceMarketRates swaps the rates of one source and day for a new batch.
func (s *Store) ReplaceMarketRates(ctx context.Context, source string, day time.Time, rates []Models.MarketRate) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("source = ? AND rate_date = ?", source, day).Delete(&Models.MarketRate{}).Error; err != nil {
			return err
		}
		if len(rates) == 0 {
			return nil
		}
		return tx.CreateInBatches(rates, 100).Error
	})
	return classify("replace market rates", err)
}

// ListMarketRates returns the latest rates, optionally for one commodity.
func (s *Store) ListMarketRates(ctx context.Context, commodity string, limit int) ([]Models.MarketRate, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := s.DB.WithContext(ctx)
	if commodity = strings.TrimSpace(commodity); commodity != "" {
		q = q.Where("LOWER(commodity) = ?", strings.ToLower(commodity))
	}
	rates := []Models.MarketRate{}
	err := q.Order("rate_date DESC, commodity ASC").Limit(limit).Find(&rates).Error
	return rates, classify("list market rates", err)
}
