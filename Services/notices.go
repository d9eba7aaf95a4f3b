package Services

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"Mandi/Ledger"
	"Mandi/Models"
	"Mandi/Notifications"
)

func rupees(d decimal.Decimal) string {
	return "Rs " + d.StringFixed(Ledger.Places)
}

func partyLabel(p *Models.Party, id uint) string {
	if p == nil {
		return "#" + strconv.FormatUint(uint64(id), 10)
	}
	return p.Name
}

func largeTransactionNotice(t *Models.Transaction) Notifications.Notice {
	body := fmt.Sprintf("Transaction #%d on %s: %s sold to %s for %s (%s kg, commission %s)",
		t.ID,
		t.TransactionDate.Format("02-01-2006"),
		partyLabel(t.Kisan, t.KisanID),
		partyLabel(t.Vyapari, t.VyapariID),
		rupees(t.SubTotal),
		t.TotalWeightInKg.StringFixed(Ledger.WeightPlaces),
		rupees(t.TotalCommission),
	)
	return Notifications.Notice{
		Title: "Large transaction recorded",
		Body:  body,
		Data: map[string]string{
			"type":           "large_transaction",
			"transaction_id": strconv.FormatUint(uint64(t.ID), 10),
			"sub_total":      t.SubTotal.StringFixed(Ledger.Places),
		},
	}
}

func dailyNotice(mandi string, s Ledger.DailySummary) Notifications.Notice {
	lines := [][2]string{
		{"Transactions", strconv.Itoa(s.TransactionCount)},
		{"Weight", s.TotalWeightInKg.StringFixed(Ledger.WeightPlaces) + " kg"},
		{"Commission", rupees(s.TotalCommission)},
		{"Collected from vyaparis", rupees(s.DailyCollectionFromVyaparis)},
		{"Paid to kisans", rupees(s.DailyPaymentsToKisans)},
		{"Mandi owes kisans", rupees(s.TotalMandiOwesToKisans)},
		{"Vyaparis owe mandi", rupees(s.TotalVyaparisOweToMandi)},
		{"Net balance", rupees(s.NetMandiBalance)},
	}

	title := fmt.Sprintf("%s daily summary %s", mandi, s.Date.Format("02-01-2006"))
	var text, rows strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&text, "%s: %s\n", l[0], l[1])
		fmt.Fprintf(&rows, "<tr><td>%s</td><td align=\"right\">%s</td></tr>", html.EscapeString(l[0]), html.EscapeString(l[1]))
	}
	return Notifications.Notice{
		Title: title,
		Body:  strings.TrimSuffix(text.String(), "\n"),
		HTML:  fmt.Sprintf("<h3>%s</h3><table>%s</table>", html.EscapeString(title), rows.String()),
		Data: map[string]string{
			"type": "daily_summary",
			"date": s.Date.Format("2006-01-02"),
		},
	}
}

func driftNotice(drifts []Ledger.Drift) Notifications.Notice {
	var b strings.Builder
	for _, d := range drifts {
		fmt.Fprintf(&b, "%s %d (%s): stored %s, history %s\n",
			d.PartyType.Label(), d.PartyID, d.Name,
			d.Stored.StringFixed(Ledger.Places), d.Derived.StringFixed(Ledger.Places))
	}
	return Notifications.Notice{
		Title: fmt.Sprintf("Bakaya drift on %d parties", len(drifts)),
		Body:  strings.TrimSuffix(b.String(), "\n"),
		Data: map[string]string{
			"type":  "reconcile_drift",
			"count": strconv.Itoa(len(drifts)),
		},
	}
}
