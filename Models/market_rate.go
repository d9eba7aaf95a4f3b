package Models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MarketRate is a reference price scraped from a public mandi price board.
type MarketRate struct {
	gorm.Model
	Commodity  string          `json:"commodity" gorm:"not null;index"`
	Market     string          `json:"market"`
	MinPrice   decimal.Decimal `json:"min_price" gorm:"type:decimal(20,2)"`
	MaxPrice   decimal.Decimal `json:"max_price" gorm:"type:decimal(20,2)"`
	ModalPrice decimal.Decimal `json:"modal_price" gorm:"type:decimal(20,2)"`
	RateDate   time.Time       `json:"rate_date" gorm:"index"`
	Source     string          `json:"source"`
}
