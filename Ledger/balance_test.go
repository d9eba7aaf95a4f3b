package Ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Mandi/Models"
)

func TestEffects(t *testing.T) {
	tx := txn(1, "2024-01-01", 1, 2, "2000", "100", "0.02", "0.40", "500", "1000")

	assertDec(t, "1460", TransactionEffect(tx, Models.PartyKisan))
	assertDec(t, "1040", TransactionEffect(tx, Models.PartyVyapari))
	assertDec(t, "-250", PaymentEffect(payment(1, "2024-01-02", Models.PartyKisan, 1, "250")))
}

func TestFoldBalance(t *testing.T) {
	txns := []Models.Transaction{
		txn(1, "2024-01-01", 1, 2, "1000", "50", "0.02", "0.40", "0", "0"),
		txn(2, "2024-01-02", 1, 3, "500", "25", "0.02", "0.40", "90", "0"),
		txn(3, "2024-01-03", 4, 2, "800", "40", "0.02", "0.40", "0", "0"),
	}
	payments := []Models.Payment{
		payment(1, "2024-01-05", Models.PartyKisan, 1, "300"),
		payment(2, "2024-01-05", Models.PartyVyapari, 1, "999"),
	}

	// 980 + 490 - 90 - 300
	assertDec(t, "1080", FoldBalance(party(1, Models.PartyKisan, "0"), txns, payments))
	// 1020 + 816
	assertDec(t, "1836", FoldBalance(party(2, Models.PartyVyapari, "0"), txns, payments))
	assertDec(t, "-999", FoldBalance(party(1, Models.PartyVyapari, "0"), txns, payments))
}

func TestReconcile(t *testing.T) {
	txns := []Models.Transaction{
		txn(1, "2024-01-01", 1, 2, "1000", "50", "0.02", "0.40", "0", "0"),
	}
	payments := []Models.Payment{payment(1, "2024-01-02", Models.PartyKisan, 1, "80")}
	parties := []Models.Party{
		party(1, Models.PartyKisan, "900"),    // in sync
		party(2, Models.PartyVyapari, "1000"), // drifted by -20
		party(5, Models.PartyKisan, "15"),     // no history at all
	}

	drifts := Reconcile(parties, txns, payments)
	require.Len(t, drifts, 2)

	assert.Equal(t, Models.PartyKisan, drifts[0].PartyType)
	assert.Equal(t, uint(5), drifts[0].PartyID)
	assertDec(t, "0", drifts[0].Derived)
	assertDec(t, "15", drifts[0].Difference)

	assert.Equal(t, Models.PartyVyapari, drifts[1].PartyType)
	assertDec(t, "1020", drifts[1].Derived)
	assertDec(t, "1000", drifts[1].Stored)
	assertDec(t, "-20", drifts[1].Difference)
}

func TestCheckBalance(t *testing.T) {
	txns := []Models.Transaction{txn(1, "2024-01-01", 1, 2, "1000", "50", "0.02", "0.40", "0", "0")}
	payments := []Models.Payment{payment(1, "2024-01-02", Models.PartyKisan, 1, "80")}

	assert.Nil(t, CheckBalance(party(1, Models.PartyKisan, "900"), txns, payments))

	d := CheckBalance(party(2, Models.PartyVyapari, "1000"), txns, payments)
	require.NotNil(t, d)
	assertDec(t, "1020", d.Derived)
	assertDec(t, "-20", d.Difference)
}
