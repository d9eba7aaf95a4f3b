package Models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettingsID is the primary key of the singleton settings row.
const SettingsID = 1

type SystemSettings struct {
	gorm.Model
	CommissionKisanRate        decimal.Decimal `json:"commission_kisan_rate" gorm:"type:decimal(10,4);not null"`
	CommissionVyapariRatePerKg decimal.Decimal `json:"commission_vyapari_rate_per_kg" gorm:"type:decimal(10,4);not null"`
	MandiName                  string          `json:"mandi_name"`
	MandiAddress               string          `json:"mandi_address"`
}

type SettingsPatch struct {
	CommissionKisanRate        decimal.NullDecimal `json:"commission_kisan_rate"`
	CommissionVyapariRatePerKg decimal.NullDecimal `json:"commission_vyapari_rate_per_kg"`
	MandiName                  *string             `json:"mandi_name" validate:"omitempty,max=120"`
	MandiAddress               *string             `json:"mandi_address" validate:"omitempty,max=255"`
}
