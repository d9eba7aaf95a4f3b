package Models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const UnitKg = "kg"

// Product is a traded commodity. The price statistics are filled by the
// price stats job from recorded transaction items.
type Product struct {
	gorm.Model
	Name           string              `json:"name" gorm:"not null;uniqueIndex"`
	Unit           string              `json:"unit" gorm:"not null;default:kg"`
	DefaultPrice   decimal.NullDecimal `json:"default_price" gorm:"type:decimal(20,2)"`
	AvgPrice       decimal.NullDecimal `json:"avg_price" gorm:"type:decimal(20,2)"`
	MinPrice       decimal.NullDecimal `json:"min_price" gorm:"type:decimal(20,2)"`
	MaxPrice       decimal.NullDecimal `json:"max_price" gorm:"type:decimal(20,2)"`
	MedianPrice    decimal.NullDecimal `json:"median_price" gorm:"type:decimal(20,2)"`
	ModePrice      decimal.NullDecimal `json:"mode_price" gorm:"type:decimal(20,2)"`
	SampleCount    int                 `json:"sample_count"`
	StatsUpdatedAt *time.Time          `json:"stats_updated_at"`
}

type ProductRequest struct {
	Name         string              `json:"name" validate:"required,min=2,max=80"`
	DefaultPrice decimal.NullDecimal `json:"default_price"`
}
