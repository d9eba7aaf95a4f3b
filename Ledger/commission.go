package Ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"Mandi/Models"
)

// Rates are the commission terms applied to one transaction. KisanRate is a
// fraction of the sub total (0.02 = 2%), VyapariRatePerKg is currency per kg.
type Rates struct {
	KisanRate        decimal.Decimal `json:"commission_kisan_rate"`
	VyapariRatePerKg decimal.Decimal `json:"commission_vyapari_rate_per_kg"`
}

func (r Rates) Validate() error {
	if r.KisanRate.IsNegative() {
		return Invalid("commission_kisan_rate", "must not be negative")
	}
	// A percent sent where a fraction is expected (2 for 2%) lands here.
	if r.KisanRate.GreaterThanOrEqual(one) {
		return Invalid("commission_kisan_rate", "must be a fraction below 1, got %s", r.KisanRate)
	}
	if r.VyapariRatePerKg.IsNegative() {
		return Invalid("commission_vyapari_rate_per_kg", "must not be negative")
	}
	return nil
}

// RatesFromSettings reads the default rates used at entry time.
func RatesFromSettings(s Models.SystemSettings) Rates {
	return Rates{KisanRate: s.CommissionKisanRate, VyapariRatePerKg: s.CommissionVyapariRatePerKg}
}

type CommissionInput struct {
	SubTotal        decimal.Decimal
	TotalWeightInKg decimal.Decimal
	Rates
}

// Commission is the per side split of one transaction.
type Commission struct {
	SubTotal         decimal.Decimal `json:"sub_total"`
	KisanAmount      decimal.Decimal `json:"commission_kisan_amount"`
	VyapariAmount    decimal.Decimal `json:"commission_vyapari_amount"`
	Total            decimal.Decimal `json:"total_commission"`
	NetAmountKisan   decimal.Decimal `json:"net_amount_kisan"`
	NetAmountVyapari decimal.Decimal `json:"net_amount_vyapari"`
}

// ComputeCommission splits the commission between both sides. The result is
// exact; use Rounded before storing it.
func ComputeCommission(in CommissionInput) (Commission, error) {
	if !in.SubTotal.IsPositive() {
		return Commission{}, Invalid("sub_total", "must be greater than zero")
	}
	if !in.TotalWeightInKg.IsPositive() {
		return Commission{}, Invalid("total_weight_in_kg", "must be greater than zero")
	}
	if err := in.Rates.Validate(); err != nil {
		return Commission{}, err
	}

	kisan := in.SubTotal.Mul(in.KisanRate)
	vyapari := in.TotalWeightInKg.Mul(in.VyapariRatePerKg)
	return Commission{
		SubTotal:         in.SubTotal,
		KisanAmount:      kisan,
		VyapariAmount:    vyapari,
		Total:            kisan.Add(vyapari),
		NetAmountKisan:   in.SubTotal.Sub(kisan),
		NetAmountVyapari: in.SubTotal.Add(vyapari),
	}, nil
}

// Rounded rounds the commissions to 2 decimals and derives the net amounts
// from the rounded values, so net + commission equals the sub total exactly
// on stored rows too.
func (c Commission) Rounded() Commission {
	subTotal := Round2(c.SubTotal)
	kisan := Round2(c.KisanAmount)
	vyapari := Round2(c.VyapariAmount)
	return Commission{
		SubTotal:         subTotal,
		KisanAmount:      kisan,
		VyapariAmount:    vyapari,
		Total:            kisan.Add(vyapari),
		NetAmountKisan:   subTotal.Sub(kisan),
		NetAmountVyapari: subTotal.Add(vyapari),
	}
}

type ItemInput struct {
	ProductID uint
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// BuildItems validates the lines and returns them in entry order together
// with the sub total and total weight. Quantities and prices are kept as
// entered; only each line total is rounded.
func BuildItems(in []ItemInput) ([]Models.TransactionItem, decimal.Decimal, decimal.Decimal, error) {
	if len(in) == 0 {
		return nil, decimal.Zero, decimal.Zero, Invalid("items", "at least one item is required")
	}

	items := make([]Models.TransactionItem, 0, len(in))
	subTotal, weight := decimal.Zero, decimal.Zero
	for i, line := range in {
		if line.ProductID == 0 {
			return nil, decimal.Zero, decimal.Zero, Invalid(fmt.Sprintf("items[%d].product_id", i), "no product selected")
		}
		qty, price := line.Quantity, line.UnitPrice
		if !qty.IsPositive() {
			return nil, decimal.Zero, decimal.Zero, Invalid(fmt.Sprintf("items[%d].quantity", i), "must be greater than zero")
		}
		if !withinPlaces(qty, WeightPlaces) {
			return nil, decimal.Zero, decimal.Zero, Invalid(fmt.Sprintf("items[%d].quantity", i), "must have at most %d decimals", WeightPlaces)
		}
		if !price.IsPositive() {
			return nil, decimal.Zero, decimal.Zero, Invalid(fmt.Sprintf("items[%d].unit_price", i), "must be greater than zero")
		}
		if !withinPlaces(price, PricePlaces) {
			return nil, decimal.Zero, decimal.Zero, Invalid(fmt.Sprintf("items[%d].unit_price", i), "must have at most %d decimals", PricePlaces)
		}

		total := Round2(qty.Mul(price))
		items = append(items, Models.TransactionItem{
			ProductID:  line.ProductID,
			Quantity:   qty,
			UnitPrice:  price,
			TotalPrice: total,
			ItemOrder:  i + 1,
		})
		subTotal = subTotal.Add(total)
		weight = weight.Add(qty)
	}
	return items, subTotal, weight, nil
}

// Draft is a transaction as entered, before any derived field exists.
type Draft struct {
	KisanID           uint
	VyapariID         uint
	Date              time.Time
	Items             []ItemInput
	Rates             Rates
	AmountPaidKisan   decimal.Decimal
	AmountPaidVyapari decimal.Decimal
	Type              Models.TransactionType
	Notes             string
}

// PrepareTransaction validates a draft and fills every derived field of the
// transaction, rounded for storage.
func PrepareTransaction(d Draft) (*Models.Transaction, error) {
	if d.KisanID == 0 {
		return nil, Invalid("kisan_id", "no kisan selected")
	}
	if d.VyapariID == 0 {
		return nil, Invalid("vyapari_id", "no vyapari selected")
	}
	if d.Date.IsZero() {
		return nil, Invalid("date", "is required")
	}
	if d.Type == "" {
		d.Type = Models.TypeSale
	}
	if !d.Type.Valid() {
		return nil, Invalid("transaction_type", "unknown type %q", d.Type)
	}

	items, subTotal, weight, err := BuildItems(d.Items)
	if err != nil {
		return nil, err
	}

	commission, err := ComputeCommission(CommissionInput{SubTotal: subTotal, TotalWeightInKg: weight, Rates: d.Rates})
	if err != nil {
		return nil, err
	}
	c := commission.Rounded()

	paidKisan := Round2(d.AmountPaidKisan)
	paidVyapari := Round2(d.AmountPaidVyapari)
	if paidKisan.IsNegative() {
		return nil, Invalid("amount_paid_kisan", "must not be negative")
	}
	if paidVyapari.IsNegative() {
		return nil, Invalid("amount_paid_vyapari", "must not be negative")
	}

	return &Models.Transaction{
		KisanID:                    d.KisanID,
		VyapariID:                  d.VyapariID,
		TransactionDate:            DateOnly(d.Date),
		Items:                      items,
		SubTotal:                   c.SubTotal,
		TotalWeightInKg:            weight,
		CommissionKisanRate:        d.Rates.KisanRate,
		CommissionKisanAmount:      c.KisanAmount,
		CommissionVyapariRatePerKg: d.Rates.VyapariRatePerKg,
		CommissionVyapariAmount:    c.VyapariAmount,
		TotalCommission:            c.Total,
		NetAmountKisan:             c.NetAmountKisan,
		NetAmountVyapari:           c.NetAmountVyapari,
		AmountPaidKisan:            paidKisan,
		AmountPaidVyapari:          paidVyapari,
		Status:                     DeriveStatus(c, paidKisan, paidVyapari),
		TransactionType:            d.Type,
		Notes:                      d.Notes,
	}, nil
}

// DeriveStatus reports how much of a transaction was settled at entry.
func DeriveStatus(c Commission, paidKisan, paidVyapari decimal.Decimal) Models.TransactionStatus {
	switch {
	case paidKisan.GreaterThanOrEqual(c.NetAmountKisan) && paidVyapari.GreaterThanOrEqual(c.NetAmountVyapari):
		return Models.StatusPaid
	case paidKisan.IsPositive() || paidVyapari.IsPositive():
		return Models.StatusPartiallyPaid
	}
	return Models.StatusPending
}
