package Ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"Mandi/Models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// txn builds a stored transaction with the commission already applied.
func txn(id uint, date string, kisanID, vyapariID uint, subTotal, weight, kisanRate, perKg, paidKisan, paidVyapari string) Models.Transaction {
	c, err := ComputeCommission(CommissionInput{
		SubTotal:        dec(subTotal),
		TotalWeightInKg: dec(weight),
		Rates:           Rates{KisanRate: dec(kisanRate), VyapariRatePerKg: dec(perKg)},
	})
	if err != nil {
		panic(err)
	}
	c = c.Rounded()
	return Models.Transaction{
		Model:                      gorm.Model{ID: id, CreatedAt: day(date).Add(time.Duration(id) * time.Minute)},
		KisanID:                    kisanID,
		VyapariID:                  vyapariID,
		TransactionDate:            day(date),
		SubTotal:                   c.SubTotal,
		TotalWeightInKg:            dec(weight),
		CommissionKisanRate:        dec(kisanRate),
		CommissionKisanAmount:      c.KisanAmount,
		CommissionVyapariRatePerKg: dec(perKg),
		CommissionVyapariAmount:    c.VyapariAmount,
		TotalCommission:            c.Total,
		NetAmountKisan:             c.NetAmountKisan,
		NetAmountVyapari:           c.NetAmountVyapari,
		AmountPaidKisan:            dec(paidKisan),
		AmountPaidVyapari:          dec(paidVyapari),
	}
}

func payment(id uint, date string, side Models.PartyType, partyID uint, amount string) Models.Payment {
	return Models.Payment{
		Model:       gorm.Model{ID: id},
		PartyID:     partyID,
		PartyType:   side,
		Amount:      dec(amount),
		PaymentDate: day(date),
	}
}

func party(id uint, side Models.PartyType, bakaya string) Models.Party {
	return Models.Party{Model: gorm.Model{ID: id}, Type: side, Name: "party", Bakaya: dec(bakaya)}
}
