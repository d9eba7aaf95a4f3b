package MarketRates

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"Mandi/Models"
)

type column int

const (
	colCommodity column = iota
	colMarket
	colMin
	colMax
	colModal
	colCount
)

// defaultLayout is the column order used when the table has no header row.
var defaultLayout = [colCount]int{0, 1, 2, 3, 4}

// headerColumn maps a header cell's text onto a column.
func headerColumn(text string) (column, bool) {
	text = strings.ToLower(text)
	switch {
	case strings.Contains(text, "commodity"), strings.Contains(text, "crop"), strings.Contains(text, "product"):
		return colCommodity, true
	case strings.Contains(text, "market"), strings.Contains(text, "mandi"):
		return colMarket, true
	case strings.Contains(text, "min"):
		return colMin, true
	case strings.Contains(text, "max"):
		return colMax, true
	case strings.Contains(text, "modal"):
		return colModal, true
	}
	return 0, false
}

// ParseTable reads commodity price rows out of an HTML table. Rows with an
// unparseable modal price are skipped.
func ParseTable(table *goquery.Selection, day time.Time, source string) ([]Models.MarketRate, error) {
	layout := defaultLayout
	if header := table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Find("th").Length() > 0
	}).First(); header.Length() > 0 {
		found := [colCount]int{-1, -1, -1, -1, -1}
		header.Find("th").Each(func(i int, th *goquery.Selection) {
			if col, ok := headerColumn(th.Text()); ok && found[col] < 0 {
				found[col] = i
			}
		})
		if found[colCommodity] < 0 || found[colModal] < 0 {
			return nil, fmt.Errorf("market rates table has no commodity or modal price column")
		}
		layout = found
	}

	rates := []Models.MarketRate{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		text := func(col column) string {
			idx := layout[col]
			if idx < 0 || idx >= cells.Length() {
				return ""
			}
			return strings.TrimSpace(cells.Eq(idx).Text())
		}

		commodity := text(colCommodity)
		modal, ok := price(text(colModal))
		if commodity == "" || !ok {
			return
		}
		minPrice, _ := price(text(colMin))
		maxPrice, _ := price(text(colMax))
		rates = append(rates, Models.MarketRate{
			Commodity:  commodity,
			Market:     text(colMarket),
			MinPrice:   minPrice,
			MaxPrice:   maxPrice,
			ModalPrice: modal,
			RateDate:   day,
			Source:     source,
		})
	})
	return rates, nil
}

// price parses board values such as "Rs 1,250.50".
func price(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "Rs."), "Rs")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d.Round(2), true
}
