package Models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionStatus string

const (
	StatusPending       TransactionStatus = "pending"
	StatusPartiallyPaid TransactionStatus = "partially_paid"
	StatusPaid          TransactionStatus = "paid"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPartiallyPaid, StatusPaid:
		return true
	}
	return false
}

type TransactionType string

const (
	TypeSale       TransactionType = "sale"
	TypeAdjustment TransactionType = "adjustment"
)

func (t TransactionType) Valid() bool {
	return t == TypeSale || t == TypeAdjustment
}

// Transaction is one sale from a kisan to a vyapari. All monetary fields are
// computed once at entry and rounded to 2 decimals before they are stored.
type Transaction struct {
	gorm.Model
	KisanID                    uint              `json:"kisan_id" gorm:"not null;index"`
	Kisan                      *Party            `json:"kisan,omitempty" gorm:"foreignKey:KisanID"`
	VyapariID                  uint              `json:"vyapari_id" gorm:"not null;index"`
	Vyapari                    *Party            `json:"vyapari,omitempty" gorm:"foreignKey:VyapariID"`
	TransactionDate            time.Time         `json:"transaction_date" gorm:"not null;index"`
	Items                      []TransactionItem `json:"items" gorm:"foreignKey:TransactionID"`
	SubTotal                   decimal.Decimal   `json:"sub_total" gorm:"type:decimal(20,2);not null"`
	TotalWeightInKg            decimal.Decimal   `json:"total_weight_in_kg" gorm:"type:decimal(20,3);not null"`
	CommissionKisanRate        decimal.Decimal   `json:"commission_kisan_rate" gorm:"type:decimal(10,4);not null"`
	CommissionKisanAmount      decimal.Decimal   `json:"commission_kisan_amount" gorm:"type:decimal(20,2);not null"`
	CommissionVyapariRatePerKg decimal.Decimal   `json:"commission_vyapari_rate_per_kg" gorm:"type:decimal(10,4);not null"`
	CommissionVyapariAmount    decimal.Decimal   `json:"commission_vyapari_amount" gorm:"type:decimal(20,2);not null"`
	TotalCommission            decimal.Decimal   `json:"total_commission" gorm:"type:decimal(20,2);not null"`
	NetAmountKisan             decimal.Decimal   `json:"net_amount_kisan" gorm:"type:decimal(20,2);not null"`
	NetAmountVyapari           decimal.Decimal   `json:"net_amount_vyapari" gorm:"type:decimal(20,2);not null"`
	AmountPaidKisan            decimal.Decimal   `json:"amount_paid_kisan" gorm:"type:decimal(20,2);not null;default:0"`
	AmountPaidVyapari          decimal.Decimal   `json:"amount_paid_vyapari" gorm:"type:decimal(20,2);not null;default:0"`
	Status                     TransactionStatus `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	TransactionType            TransactionType   `json:"transaction_type" gorm:"type:varchar(20);not null;default:sale"`
	Notes                      string            `json:"notes" gorm:"type:text"`
}

// TransactionItem is one product line. Items keep the order they were entered in.
type TransactionItem struct {
	gorm.Model
	TransactionID uint            `json:"transaction_id" gorm:"not null;index"`
	ProductID     uint            `json:"product_id" gorm:"not null;index"`
	Product       *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity      decimal.Decimal `json:"quantity" gorm:"type:decimal(20,3);not null"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,4);not null"`
	TotalPrice    decimal.Decimal `json:"total_price" gorm:"type:decimal(20,2);not null"`
	ItemOrder     int             `json:"item_order" gorm:"not null"`
}

// PartyID returns the id of the party on the given side.
func (t Transaction) PartyID(side PartyType) uint {
	if side == PartyKisan {
		return t.KisanID
	}
	return t.VyapariID
}

type TransactionRequest struct {
	KisanID           uint                     `json:"kisan_id" validate:"required"`
	VyapariID         uint                     `json:"vyapari_id" validate:"required"`
	Date              string                   `json:"date" validate:"required,datetime=2006-01-02"`
	Items             []TransactionItemRequest `json:"items" validate:"required,min=1,dive"`
	AmountPaidKisan   decimal.Decimal          `json:"amount_paid_kisan"`
	AmountPaidVyapari decimal.Decimal          `json:"amount_paid_vyapari"`
	TransactionType   TransactionType          `json:"transaction_type" validate:"omitempty,oneof=sale adjustment"`
	Notes             string                   `json:"notes" validate:"max=1000"`

	// Optional per-transaction overrides of the settings rates, as fractions.
	CommissionKisanRate        decimal.NullDecimal `json:"commission_kisan_rate"`
	CommissionVyapariRatePerKg decimal.NullDecimal `json:"commission_vyapari_rate_per_kg"`
}

type TransactionItemRequest struct {
	ProductID uint            `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// TransactionPatch is the batch edit payload. Only administrative fields can
// change; nil means no change.
type TransactionPatch struct {
	Notes           *string            `json:"notes"`
	Status          *TransactionStatus `json:"status"`
	TransactionType *TransactionType   `json:"transaction_type"`
}

func (p TransactionPatch) Empty() bool {
	return p.Notes == nil && p.Status == nil && p.TransactionType == nil
}

// Updates returns the column map for a gorm Updates call.
func (p TransactionPatch) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	if p.TransactionType != nil {
		updates["transaction_type"] = *p.TransactionType
	}
	return updates
}

type BatchEditRequest struct {
	IDs   []uint           `json:"ids" validate:"required,min=1,max=500"`
	Patch TransactionPatch `json:"patch"`
}

type TransactionFilter struct {
	KisanID   uint
	VyapariID uint
	From      *time.Time
	To        *time.Time
	Status    TransactionStatus
	Limit     int
	Offset    int
}
