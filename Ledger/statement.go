package Ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"Mandi/Models"
)

type StatementParams struct {
	EntityType    Models.PartyType
	Party         Models.Party
	StartDate     *time.Time
	EndDate       *time.Time
	Transactions  []Models.Transaction
	Payments      []Models.Payment
	StatementDate time.Time
}

// PartySnapshot is the identity block printed at the top of a bill.
type PartySnapshot struct {
	ID       uint             `json:"id"`
	Type     Models.PartyType `json:"type"`
	Name     string           `json:"name"`
	Phone    string           `json:"phone"`
	Village  string           `json:"village,omitempty"`
	FirmName string           `json:"firm_name,omitempty"`
	Address  string           `json:"address"`
}

// StatementSummary totals the in-period transactions. The gross and cash
// fields are named for the side the statement is for; the other side's
// fields are nil.
type StatementSummary struct {
	TransactionCount              int              `json:"transaction_count"`
	TotalWeight                   decimal.Decimal  `json:"total_weight"`
	TotalCommission               decimal.Decimal  `json:"total_commission"`
	TotalAmountToKisanGross       *decimal.Decimal `json:"total_amount_to_kisan_gross,omitempty"`
	TotalCashPaidToKisan          *decimal.Decimal `json:"total_cash_paid_to_kisan,omitempty"`
	TotalAmountFromVyapariGross   *decimal.Decimal `json:"total_amount_from_vyapari_gross,omitempty"`
	TotalCashCollectedFromVyapari *decimal.Decimal `json:"total_cash_collected_from_vyapari,omitempty"`
	NetAmountChangeInPeriod       decimal.Decimal  `json:"net_amount_change_in_period"`
	PaymentCount                  int              `json:"payment_count"`
	TotalPaymentsInPeriod         decimal.Decimal  `json:"total_payments_in_period"`
}

// Gross is the side-independent view of the gross amount.
func (s StatementSummary) Gross() decimal.Decimal {
	if s.TotalAmountToKisanGross != nil {
		return *s.TotalAmountToKisanGross
	}
	if s.TotalAmountFromVyapariGross != nil {
		return *s.TotalAmountFromVyapariGross
	}
	return decimal.Zero
}

// CashSettled is the side-independent view of cash paid or collected at entry.
func (s StatementSummary) CashSettled() decimal.Decimal {
	if s.TotalCashPaidToKisan != nil {
		return *s.TotalCashPaidToKisan
	}
	if s.TotalCashCollectedFromVyapari != nil {
		return *s.TotalCashCollectedFromVyapari
	}
	return decimal.Zero
}

type BillStatement struct {
	Entity         PartySnapshot        `json:"entity"`
	StatementDate  time.Time            `json:"statement_date"`
	StartDate      *time.Time           `json:"start_date,omitempty"`
	EndDate        *time.Time           `json:"end_date,omitempty"`
	OpeningBalance decimal.Decimal      `json:"opening_balance"`
	Transactions   []Models.Transaction `json:"transactions"`
	Payments       []Models.Payment     `json:"payments"`
	Summary        StatementSummary     `json:"summary"`
	// ClosingBalance is the opening balance moved by the period's history.
	// It matches CurrentBakaya only when no record exists after the period
	// and the cached balance has not drifted.
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	CurrentBakaya  decimal.Decimal `json:"current_bakaya"`
}

type period struct {
	start, end *time.Time
}

func (p period) before(t time.Time) bool {
	return p.start != nil && !sameDayOrAfter(t, *p.start)
}

func (p period) contains(t time.Time) bool {
	if p.before(t) {
		return false
	}
	return p.end == nil || sameDayOrBefore(t, *p.end)
}

// BuildStatement aggregates one party's history into a bill statement. It
// does not modify its inputs.
func BuildStatement(p StatementParams) (*BillStatement, error) {
	if !p.EntityType.Valid() {
		return nil, Invalid("entity_type", "must be kisan or vyapari")
	}
	if p.Party.Type != p.EntityType {
		return nil, NotFound(string(p.EntityType), p.Party.ID)
	}
	if p.StartDate != nil && p.EndDate != nil && DateOnly(*p.EndDate).Before(DateOnly(*p.StartDate)) {
		return nil, Invalid("end_date", "must not be before start_date")
	}

	side := p.EntityType
	window := period{start: p.StartDate, end: p.EndDate}

	st := &BillStatement{
		Entity:         snapshot(p.Party),
		StatementDate:  p.StatementDate,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		OpeningBalance: decimal.Zero,
		Transactions:   []Models.Transaction{},
		Payments:       []Models.Payment{},
		CurrentBakaya:  p.Party.Bakaya,
	}

	movement := decimal.Zero
	for _, t := range p.Transactions {
		if t.PartyID(side) != p.Party.ID {
			continue
		}
		switch {
		case window.before(t.TransactionDate):
			st.OpeningBalance = st.OpeningBalance.Add(TransactionEffect(t, side))
		case window.contains(t.TransactionDate):
			st.Transactions = append(st.Transactions, t)
			movement = movement.Add(TransactionEffect(t, side))
		}
	}
	for _, pay := range p.Payments {
		if pay.PartyType != side || pay.PartyID != p.Party.ID {
			continue
		}
		switch {
		case window.before(pay.PaymentDate):
			st.OpeningBalance = st.OpeningBalance.Add(PaymentEffect(pay))
		case window.contains(pay.PaymentDate):
			st.Payments = append(st.Payments, pay)
			movement = movement.Add(PaymentEffect(pay))
		}
	}

	sortTransactions(st.Transactions)
	sort.SliceStable(st.Payments, func(i, j int) bool {
		a, b := st.Payments[i], st.Payments[j]
		if !a.PaymentDate.Equal(b.PaymentDate) {
			return a.PaymentDate.Before(b.PaymentDate)
		}
		return a.ID < b.ID
	})

	st.Summary = summarize(side, st.Transactions, st.Payments)
	st.ClosingBalance = st.OpeningBalance.Add(movement)
	return st, nil
}

func snapshot(p Models.Party) PartySnapshot {
	return PartySnapshot{
		ID:       p.ID,
		Type:     p.Type,
		Name:     p.Name,
		Phone:    p.Phone,
		Village:  p.Village,
		FirmName: p.FirmName,
		Address:  p.Address,
	}
}

// sortTransactions orders by date, then by creation order.
func sortTransactions(txns []Models.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		a, b := txns[i], txns[j]
		if !a.TransactionDate.Equal(b.TransactionDate) {
			return a.TransactionDate.Before(b.TransactionDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func summarize(side Models.PartyType, txns []Models.Transaction, payments []Models.Payment) StatementSummary {
	s := StatementSummary{
		TransactionCount:        len(txns),
		TotalWeight:             decimal.Zero,
		TotalCommission:         decimal.Zero,
		NetAmountChangeInPeriod: decimal.Zero,
		PaymentCount:            len(payments),
		TotalPaymentsInPeriod:   decimal.Zero,
	}
	gross, cash := decimal.Zero, decimal.Zero
	for _, t := range txns {
		s.TotalWeight = s.TotalWeight.Add(t.TotalWeightInKg)
		s.TotalCommission = s.TotalCommission.Add(t.TotalCommission)
		gross = gross.Add(t.SubTotal)
		if side == Models.PartyKisan {
			cash = cash.Add(t.AmountPaidKisan)
			s.NetAmountChangeInPeriod = s.NetAmountChangeInPeriod.Add(t.NetAmountKisan)
		} else {
			cash = cash.Add(t.AmountPaidVyapari)
			s.NetAmountChangeInPeriod = s.NetAmountChangeInPeriod.Add(t.NetAmountVyapari)
		}
	}
	for _, p := range payments {
		s.TotalPaymentsInPeriod = s.TotalPaymentsInPeriod.Add(p.Amount)
	}

	if side == Models.PartyKisan {
		s.TotalAmountToKisanGross = &gross
		s.TotalCashPaidToKisan = &cash
	} else {
		s.TotalAmountFromVyapariGross = &gross
		s.TotalCashCollectedFromVyapari = &cash
	}
	return s
}
