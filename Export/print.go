package Export

import (
	"github.com/shopspring/decimal"

	"Mandi/Ledger"
	"Mandi/Models"
)

// BillView is the printable bill, with every amount already formatted.
type BillView struct {
	MandiName     string
	MandiAddress  string
	PartyLabel    string
	PartyName     string
	Phone         string
	Village       string
	Address       string
	Period        string
	StatementDate string
	Opening       string
	Rows          []BillRow
	Payments      []PaymentRow
	Summary       []SummaryLine
	Closing       string
	Current       string
}

type BillRow struct {
	Date       string
	ID         uint
	Items      string
	Weight     string
	Gross      string
	Commission string
	Net        string
	Paid       string
}

type PaymentRow struct {
	Date      string
	Mode      string
	Reference string
	Amount    string
}

type SummaryLine struct {
	Label string
	Value string
}

func money(d decimal.Decimal) string {
	return Ledger.Round2(d).StringFixed(2)
}

// fixed prints 2 decimals, or up to places when the value carries more.
func fixed(d decimal.Decimal, places int32) string {
	for p := int32(2); p < places; p++ {
		if d.Equal(d.Truncate(p)) {
			return d.StringFixed(p)
		}
	}
	return d.StringFixed(places)
}

// PrintView maps a statement onto the bill template.
func PrintView(st *Ledger.BillStatement, settings Models.SystemSettings) BillView {
	side := st.Entity.Type
	v := BillView{
		MandiName:     settings.MandiName,
		MandiAddress:  settings.MandiAddress,
		PartyLabel:    side.Label(),
		PartyName:     partyName(st.Entity),
		Phone:         st.Entity.Phone,
		Village:       st.Entity.Village,
		Address:       st.Entity.Address,
		Period:        Period(st.StartDate, st.EndDate),
		StatementDate: st.StatementDate.Format(dateLayout),
		Opening:       money(st.OpeningBalance),
		Rows:          make([]BillRow, 0, len(st.Transactions)),
		Payments:      make([]PaymentRow, 0, len(st.Payments)),
		Closing:       money(st.ClosingBalance),
		Current:       money(st.CurrentBakaya),
	}

	for _, t := range st.Transactions {
		net, paid := t.NetAmountKisan, t.AmountPaidKisan
		if side == Models.PartyVyapari {
			net, paid = t.NetAmountVyapari, t.AmountPaidVyapari
		}
		v.Rows = append(v.Rows, BillRow{
			Date:       t.TransactionDate.Format(dateLayout),
			ID:         t.ID,
			Items:      ItemsLabel(t.Items),
			Weight:     fixed(t.TotalWeightInKg, Ledger.WeightPlaces),
			Gross:      money(t.SubTotal),
			Commission: money(commissionFor(t, side)),
			Net:        money(net),
			Paid:       money(paid),
		})
	}
	for _, p := range st.Payments {
		v.Payments = append(v.Payments, PaymentRow{
			Date:      p.PaymentDate.Format(dateLayout),
			Mode:      string(p.Mode),
			Reference: p.Reference,
			Amount:    money(p.Amount),
		})
	}

	sum := st.Summary
	grossLabel, cashLabel := "Gross Amount to Kisan", "Cash Paid to Kisan"
	if side == Models.PartyVyapari {
		grossLabel, cashLabel = "Gross Amount from Vyapari", "Cash Collected from Vyapari"
	}
	v.Summary = []SummaryLine{
		{"Total Weight (kg)", fixed(sum.TotalWeight, Ledger.WeightPlaces)},
		{"Total Commission", money(sum.TotalCommission)},
		{grossLabel, money(sum.Gross())},
		{cashLabel, money(sum.CashSettled())},
		{"Net Change in Period", money(sum.NetAmountChangeInPeriod)},
		{"Payments in Period", money(sum.TotalPaymentsInPeriod)},
	}
	return v
}
