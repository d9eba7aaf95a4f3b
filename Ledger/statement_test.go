package Ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Mandi/Models"
)

func TestBuildStatementKisanExample(t *testing.T) {
	k := party(1, Models.PartyKisan, "1470")
	params := StatementParams{
		EntityType: Models.PartyKisan,
		Party:      k,
		Transactions: []Models.Transaction{
			txn(1, "2024-03-01", 1, 9, "1000", "50", "0.02", "0", "0", "0"),
			txn(2, "2024-03-02", 1, 9, "500", "25", "0.02", "0", "0", "0"),
		},
		StatementDate: day("2024-03-31"),
	}

	st, err := BuildStatement(params)
	require.NoError(t, err)

	require.Len(t, st.Transactions, 2)
	assertDec(t, "0", st.OpeningBalance)
	assertDec(t, "1500", *st.Summary.TotalAmountToKisanGross)
	assertDec(t, "30", st.Summary.TotalCommission)
	assertDec(t, "1470", st.Summary.NetAmountChangeInPeriod)
	assertDec(t, "75", st.Summary.TotalWeight)
	assertDec(t, "0", *st.Summary.TotalCashPaidToKisan)
	assert.Nil(t, st.Summary.TotalAmountFromVyapariGross)
	assertDec(t, "1470", st.CurrentBakaya)
	assertDec(t, "1470", st.ClosingBalance)
	assert.Equal(t, "Kisan", st.Entity.Type.Label())
}

func TestBuildStatementRangeAndOpeningBalance(t *testing.T) {
	v := party(9, Models.PartyVyapari, "999")
	history := []Models.Transaction{
		txn(1, "2024-02-10", 1, 9, "1000", "100", "0.02", "0.40", "0", "500"),  // before: 1040 - 500
		txn(2, "2024-03-01", 2, 9, "2000", "100", "0.02", "0.40", "0", "0"),    // start day
		txn(3, "2024-03-15", 1, 9, "500", "50", "0.02", "0.40", "0", "100"),    // inside
		txn(4, "2024-03-31", 3, 9, "300", "10", "0.02", "0.40", "0", "0"),      // end day
		txn(5, "2024-04-01", 1, 9, "700", "70", "0.02", "0.40", "0", "0"),      // after
		txn(6, "2024-03-10", 1, 8, "9999", "10", "0.02", "0.40", "0", "0"),     // other vyapari
	}
	payments := []Models.Payment{
		payment(1, "2024-02-20", Models.PartyVyapari, 9, "200"), // before
		payment(2, "2024-03-20", Models.PartyVyapari, 9, "300"), // inside
		payment(3, "2024-03-20", Models.PartyKisan, 9, "50"),    // kisan with the same id
	}

	st, err := BuildStatement(StatementParams{
		EntityType:    Models.PartyVyapari,
		Party:         v,
		StartDate:     dayPtr("2024-03-01"),
		EndDate:       dayPtr("2024-03-31"),
		Transactions:  history,
		Payments:      payments,
		StatementDate: day("2024-04-02"),
	})
	require.NoError(t, err)

	ids := []uint{}
	for _, tx := range st.Transactions {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []uint{2, 3, 4}, ids)

	// 1040 - 500 - 200
	assertDec(t, "340", st.OpeningBalance)
	assertDec(t, "2800", *st.Summary.TotalAmountFromVyapariGross)
	assertDec(t, "100", *st.Summary.TotalCashCollectedFromVyapari)
	assertDec(t, "160", st.Summary.TotalWeight)
	// 2040 + 520 + 304
	assertDec(t, "2864", st.Summary.NetAmountChangeInPeriod)
	assertDec(t, "120", st.Summary.TotalCommission)
	assert.Equal(t, 1, st.Summary.PaymentCount)
	assertDec(t, "300", st.Summary.TotalPaymentsInPeriod)
	// 340 + (2864 - 100) - 300
	assertDec(t, "2804", st.ClosingBalance)
	assertDec(t, "999", st.CurrentBakaya)
	assert.Nil(t, st.Summary.TotalAmountToKisanGross)
}

func TestBuildStatementWithoutRangeIncludesEverything(t *testing.T) {
	k := party(1, Models.PartyKisan, "0")
	st, err := BuildStatement(StatementParams{
		EntityType: Models.PartyKisan,
		Party:      k,
		Transactions: []Models.Transaction{
			txn(1, "2023-01-01", 1, 9, "100", "10", "0.02", "0.4", "0", "0"),
			txn(2, "2025-01-01", 1, 9, "100", "10", "0.02", "0.4", "0", "0"),
		},
		Payments: []Models.Payment{payment(1, "2022-01-01", Models.PartyKisan, 1, "10")},
	})
	require.NoError(t, err)

	assertDec(t, "0", st.OpeningBalance)
	assert.Len(t, st.Transactions, 2)
	assert.Len(t, st.Payments, 1)
	assertDec(t, "186", st.ClosingBalance)
}

func TestBuildStatementEndOnly(t *testing.T) {
	st, err := BuildStatement(StatementParams{
		EntityType: Models.PartyKisan,
		Party:      party(1, Models.PartyKisan, "0"),
		EndDate:    dayPtr("2024-01-31"),
		Transactions: []Models.Transaction{
			txn(1, "2024-01-31", 1, 9, "100", "10", "0.02", "0.4", "0", "0"),
			txn(2, "2024-02-01", 1, 9, "100", "10", "0.02", "0.4", "0", "0"),
		},
	})
	require.NoError(t, err)
	require.Len(t, st.Transactions, 1)
	assert.Equal(t, uint(1), st.Transactions[0].ID)
	assertDec(t, "0", st.OpeningBalance)
}

func TestBuildStatementEmptyRange(t *testing.T) {
	st, err := BuildStatement(StatementParams{
		EntityType: Models.PartyKisan,
		Party:      party(1, Models.PartyKisan, "490"),
		StartDate:  dayPtr("2024-06-01"),
		EndDate:    dayPtr("2024-06-30"),
		Transactions: []Models.Transaction{
			txn(1, "2024-05-01", 1, 9, "500", "25", "0.02", "0", "0", "0"),
		},
	})
	require.NoError(t, err)

	assert.Empty(t, st.Transactions)
	assert.NotNil(t, st.Transactions)
	assert.Equal(t, 0, st.Summary.TransactionCount)
	assertDec(t, "0", st.Summary.TotalWeight)
	assertDec(t, "0", st.Summary.TotalCommission)
	assertDec(t, "0", st.Summary.NetAmountChangeInPeriod)
	assertDec(t, "0", *st.Summary.TotalAmountToKisanGross)
	assertDec(t, "490", st.OpeningBalance)
}

func TestBuildStatementSortsByDateThenCreation(t *testing.T) {
	a := txn(10, "2024-03-02", 1, 9, "100", "1", "0", "0", "0", "0")
	b := txn(4, "2024-03-01", 1, 9, "100", "1", "0", "0", "0", "0")
	c := txn(7, "2024-03-01", 1, 9, "100", "1", "0", "0", "0", "0")
	// same day, c was created first
	c.CreatedAt = b.CreatedAt.Add(-1)

	input := []Models.Transaction{a, b, c}
	st, err := BuildStatement(StatementParams{
		EntityType:   Models.PartyKisan,
		Party:        party(1, Models.PartyKisan, "0"),
		Transactions: input,
	})
	require.NoError(t, err)

	got := []uint{st.Transactions[0].ID, st.Transactions[1].ID, st.Transactions[2].ID}
	assert.Equal(t, []uint{7, 4, 10}, got)
	// input untouched
	assert.Equal(t, uint(10), input[0].ID)
}

func TestBuildStatementIsIdempotent(t *testing.T) {
	params := StatementParams{
		EntityType: Models.PartyVyapari,
		Party:      party(9, Models.PartyVyapari, "12"),
		StartDate:  dayPtr("2024-03-01"),
		Transactions: []Models.Transaction{
			txn(1, "2024-02-01", 1, 9, "100", "10", "0.02", "0.4", "0", "0"),
			txn(2, "2024-03-05", 1, 9, "250", "10", "0.02", "0.4", "0", "0"),
		},
		StatementDate: day("2024-03-31"),
	}

	first, err := BuildStatement(params)
	require.NoError(t, err)
	second, err := BuildStatement(params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildStatementErrors(t *testing.T) {
	_, err := BuildStatement(StatementParams{EntityType: "broker", Party: party(1, Models.PartyKisan, "0")})
	assert.True(t, IsValidation(err))

	_, err = BuildStatement(StatementParams{EntityType: Models.PartyVyapari, Party: party(1, Models.PartyKisan, "0")})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = BuildStatement(StatementParams{
		EntityType: Models.PartyKisan,
		Party:      party(1, Models.PartyKisan, "0"),
		StartDate:  dayPtr("2024-03-02"),
		EndDate:    dayPtr("2024-03-01"),
	})
	assert.True(t, IsValidation(err))
}
