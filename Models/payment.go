package Models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentMode string

const (
	ModeCash   PaymentMode = "cash"
	ModeBank   PaymentMode = "bank"
	ModeUPI    PaymentMode = "upi"
	ModeCheque PaymentMode = "cheque"
)

// Payment is cash moving between the mandi and one party after the sale.
// Paying a kisan and collecting from a vyapari both reduce the party's bakaya.
type Payment struct {
	gorm.Model
	PartyID       uint            `json:"party_id" gorm:"not null;index"`
	Party         *Party          `json:"party,omitempty" gorm:"foreignKey:PartyID"`
	PartyType     PartyType       `json:"party_type" gorm:"type:varchar(16);not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Mode          PaymentMode     `json:"mode" gorm:"type:varchar(16);not null;default:cash"`
	PaymentDate   time.Time       `json:"payment_date" gorm:"not null;index"`
	TransactionID *uint           `json:"transaction_id" gorm:"index"`
	Reference     string          `json:"reference"`
	Notes         string          `json:"notes" gorm:"type:text"`
}

type PaymentRequest struct {
	PartyID       uint            `json:"party_id" validate:"required"`
	PartyType     PartyType       `json:"party_type" validate:"required,oneof=kisan vyapari"`
	Amount        decimal.Decimal `json:"amount"`
	Mode          PaymentMode     `json:"mode" validate:"omitempty,oneof=cash bank upi cheque"`
	Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
	TransactionID *uint           `json:"transaction_id"`
	Reference     string          `json:"reference" validate:"max=120"`
	Notes         string          `json:"notes" validate:"max=1000"`
}

type PaymentFilter struct {
	PartyID   uint
	PartyType PartyType
	From      *time.Time
	To        *time.Time
	Limit     int
}
