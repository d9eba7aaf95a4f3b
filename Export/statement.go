package Export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"Mandi/Ledger"
	"Mandi/Models"
)

const (
	StatementSheet = "Statement"
	ContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	dateLayout = "02-01-2006"
	// numFmtMoney is excelize's built in "#,##0.00".
	numFmtMoney = 4
)

var transactionHeaders = []string{"Date", "Txn #", "Items", "Weight (kg)", "Gross", "Commission", "Net Amount", "Paid at Entry", "Bakaya Change"}

var paymentHeaders = []string{"Date", "Mode", "Reference", "Amount"}

type styles struct {
	title, label, header, money int
}

// sheet writes rows top to bottom.
type sheet struct {
	f      *excelize.File
	name   string
	row    int
	styles styles
}

func (s *sheet) cell(col int) string {
	name, _ := excelize.CoordinatesToCellName(col, s.row)
	return name
}

func (s *sheet) put(col int, value interface{}) {
	if d, ok := value.(decimal.Decimal); ok {
		s.f.SetCellValue(s.name, s.cell(col), d.InexactFloat64())
		s.f.SetCellStyle(s.name, s.cell(col), s.cell(col), s.styles.money)
		return
	}
	s.f.SetCellValue(s.name, s.cell(col), value)
}

func (s *sheet) labelled(label string, value interface{}) {
	s.put(1, label)
	s.f.SetCellStyle(s.name, s.cell(1), s.cell(1), s.styles.label)
	s.put(2, value)
	s.row++
}

func (s *sheet) headerRow(headers []string) {
	for i, h := range headers {
		s.put(i+1, h)
	}
	s.f.SetCellStyle(s.name, s.cell(1), s.cell(len(headers)), s.styles.header)
	s.row++
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	if st.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return st, err
	}
	if st.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return st, err
	}
	st.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2E7D32"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return st, err
	}
	if st.money, err = f.NewStyle(&excelize.Style{NumFmt: numFmtMoney}); err != nil {
		return st, err
	}
	return st, nil
}

// StatementWorkbook renders a bill statement as a single sheet xlsx file.
func StatementWorkbook(st *Ledger.BillStatement, settings Models.SystemSettings) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StatementSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	sty, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("create styles: %w", err)
	}
	s := &sheet{f: f, name: StatementSheet, row: 1, styles: sty}

	s.put(1, settings.MandiName)
	f.SetCellStyle(s.name, s.cell(1), s.cell(1), s.styles.title)
	s.row++
	if settings.MandiAddress != "" {
		s.put(1, settings.MandiAddress)
		s.row++
	}
	s.row++

	side := st.Entity.Type
	s.labelled(side.Label(), partyName(st.Entity))
	if st.Entity.Phone != "" {
		s.labelled("Phone", st.Entity.Phone)
	}
	s.labelled("Period", Period(st.StartDate, st.EndDate))
	s.labelled("Statement Date", st.StatementDate.Format(dateLayout))
	s.labelled("Opening Balance", st.OpeningBalance)
	s.row++

	s.headerRow(transactionHeaders)
	for _, t := range st.Transactions {
		net, paid := t.NetAmountKisan, t.AmountPaidKisan
		if side == Models.PartyVyapari {
			net, paid = t.NetAmountVyapari, t.AmountPaidVyapari
		}
		s.put(1, t.TransactionDate.Format(dateLayout))
		s.put(2, t.ID)
		s.put(3, ItemsLabel(t.Items))
		s.put(4, t.TotalWeightInKg)
		s.put(5, t.SubTotal)
		s.put(6, commissionFor(t, side))
		s.put(7, net)
		s.put(8, paid)
		s.put(9, Ledger.TransactionEffect(t, side))
		s.row++
	}
	s.row++

	if len(st.Payments) > 0 {
		s.put(1, "Payments")
		f.SetCellStyle(s.name, s.cell(1), s.cell(1), s.styles.label)
		s.row++
		s.headerRow(paymentHeaders)
		for _, p := range st.Payments {
			s.put(1, p.PaymentDate.Format(dateLayout))
			s.put(2, string(p.Mode))
			s.put(3, p.Reference)
			s.put(4, p.Amount)
			s.row++
		}
		s.row++
	}

	sum := st.Summary
	s.labelled("Transactions", sum.TransactionCount)
	s.labelled("Total Weight (kg)", sum.TotalWeight)
	s.labelled("Total Commission", sum.TotalCommission)
	if side == Models.PartyKisan {
		s.labelled("Gross Amount to Kisan", sum.Gross())
		s.labelled("Cash Paid to Kisan", sum.CashSettled())
	} else {
		s.labelled("Gross Amount from Vyapari", sum.Gross())
		s.labelled("Cash Collected from Vyapari", sum.CashSettled())
	}
	s.labelled("Net Change in Period", sum.NetAmountChangeInPeriod)
	s.labelled("Payments in Period", sum.TotalPaymentsInPeriod)
	s.labelled("Closing Balance", st.ClosingBalance)
	s.labelled("Current Bakaya", st.CurrentBakaya)

	f.SetColWidth(s.name, "A", "A", 26)
	f.SetColWidth(s.name, "B", "I", 15)
	f.SetColWidth(s.name, "C", "C", 36)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &buf, nil
}

// Filename is the download name of a statement workbook.
func Filename(st *Ledger.BillStatement) string {
	name := strings.ToLower(strings.Join(strings.Fields(st.Entity.Name), "_"))
	return fmt.Sprintf("%s_%d_%s_statement_%s.xlsx", st.Entity.Type, st.Entity.ID, name, st.StatementDate.Format("20060102"))
}

// Period is the human readable statement window.
func Period(start, end *time.Time) string {
	switch {
	case start == nil && end == nil:
		return "All time"
	case start == nil:
		return "Up to " + end.Format(dateLayout)
	case end == nil:
		return "From " + start.Format(dateLayout)
	}
	return start.Format(dateLayout) + " to " + end.Format(dateLayout)
}

// ItemsLabel lists the items as "Tomato 100.00kg @ 20.00".
func ItemsLabel(items []Models.TransactionItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		name := fmt.Sprintf("#%d", it.ProductID)
		if it.Product != nil {
			name = it.Product.Name
		}
		parts = append(parts, fmt.Sprintf("%s %skg @ %s", name, fixed(it.Quantity, Ledger.WeightPlaces), fixed(it.UnitPrice, Ledger.PricePlaces)))
	}
	return strings.Join(parts, ", ")
}

func partyName(p Ledger.PartySnapshot) string {
	if p.FirmName != "" {
		return fmt.Sprintf("%s (%s)", p.Name, p.FirmName)
	}
	return p.Name
}

func commissionFor(t Models.Transaction, side Models.PartyType) decimal.Decimal {
	if side == Models.PartyKisan {
		return t.CommissionKisanAmount
	}
	return t.CommissionVyapariAmount
}
