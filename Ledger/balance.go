package Ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"Mandi/Models"
)

// TransactionEffect is what a transaction adds to the bakaya of the party
// on the given side: the net amount less the cash settled at entry.
func TransactionEffect(t Models.Transaction, side Models.PartyType) decimal.Decimal {
	if side == Models.PartyKisan {
		return t.NetAmountKisan.Sub(t.AmountPaidKisan)
	}
	return t.NetAmountVyapari.Sub(t.AmountPaidVyapari)
}

// PaymentEffect is what a payment adds to its party's bakaya.
func PaymentEffect(p Models.Payment) decimal.Decimal {
	return p.Amount.Neg()
}

type partyKey struct {
	Type Models.PartyType
	ID   uint
}

// FoldBalance derives a party's balance from its full history.
func FoldBalance(party Models.Party, txns []Models.Transaction, payments []Models.Payment) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range txns {
		if t.PartyID(party.Type) == party.ID {
			balance = balance.Add(TransactionEffect(t, party.Type))
		}
	}
	for _, p := range payments {
		if p.PartyType == party.Type && p.PartyID == party.ID {
			balance = balance.Add(PaymentEffect(p))
		}
	}
	return balance
}

// Drift is a party whose cached bakaya disagrees with its history.
type Drift struct {
	PartyID    uint             `json:"party_id"`
	PartyType  Models.PartyType `json:"party_type"`
	Name       string           `json:"name"`
	Stored     decimal.Decimal  `json:"stored"`
	Derived    decimal.Decimal  `json:"derived"`
	Difference decimal.Decimal  `json:"difference"`
}

// CheckBalance folds one party's history and returns its drift, or nil when
// the cached bakaya matches.
func CheckBalance(party Models.Party, txns []Models.Transaction, payments []Models.Payment) *Drift {
	derived := Round2(FoldBalance(party, txns, payments))
	if derived.Equal(party.Bakaya) {
		return nil
	}
	return &Drift{
		PartyID:    party.ID,
		PartyType:  party.Type,
		Name:       party.Name,
		Stored:     party.Bakaya,
		Derived:    derived,
		Difference: party.Bakaya.Sub(derived),
	}
}

// Reconcile folds the history of every party in one pass and returns the
// parties whose cached bakaya drifted, ordered by type then id.
func Reconcile(parties []Models.Party, txns []Models.Transaction, payments []Models.Payment) []Drift {
	derived := make(map[partyKey]decimal.Decimal, len(parties))
	for _, t := range txns {
		k := partyKey{Models.PartyKisan, t.KisanID}
		derived[k] = derived[k].Add(TransactionEffect(t, Models.PartyKisan))
		v := partyKey{Models.PartyVyapari, t.VyapariID}
		derived[v] = derived[v].Add(TransactionEffect(t, Models.PartyVyapari))
	}
	for _, p := range payments {
		k := partyKey{p.PartyType, p.PartyID}
		derived[k] = derived[k].Add(PaymentEffect(p))
	}

	drifts := []Drift{}
	for _, party := range parties {
		want := Round2(derived[partyKey{party.Type, party.ID}])
		if want.Equal(party.Bakaya) {
			continue
		}
		drifts = append(drifts, Drift{
			PartyID:    party.ID,
			PartyType:  party.Type,
			Name:       party.Name,
			Stored:     party.Bakaya,
			Derived:    want,
			Difference: party.Bakaya.Sub(want),
		})
	}
	sort.Slice(drifts, func(i, j int) bool {
		if drifts[i].PartyType != drifts[j].PartyType {
			return drifts[i].PartyType < drifts[j].PartyType
		}
		return drifts[i].PartyID < drifts[j].PartyID
	})
	return drifts
}
