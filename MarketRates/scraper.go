package MarketRates

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly"
	"github.com/rs/zerolog/log"

	"Mandi/Ledger"
	"Mandi/Models"
)

// Scraper reads the price table of a public mandi board page.
type Scraper struct {
	URL      string
	Selector string
	Timeout  time.Duration
}

func NewScraper(url, selector string) *Scraper {
	if selector == "" {
		selector = "table"
	}
	return &Scraper{URL: url, Selector: selector, Timeout: 30 * time.Second}
}

// Fetch visits the page and returns the rates of the first matching table,
// dated with the given day.
func (s *Scraper) Fetch(ctx context.Context, day time.Time) ([]Models.MarketRate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collector := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (compatible; mandi-ledger)"),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(s.Timeout)

	var (
		rates    []Models.MarketRate
		parseErr error
		matched  bool
	)
	collector.OnHTML(s.Selector, func(e *colly.HTMLElement) {
		if matched {
			return
		}
		matched = true
		rates, parseErr = ParseTable(e.DOM, Ledger.DateOnly(day), s.URL)
	})

	var visitErr error
	collector.OnError(func(r *colly.Response, err error) {
		visitErr = fmt.Errorf("fetch %s: status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	if err := collector.Visit(s.URL); err != nil && visitErr == nil {
		visitErr = fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	collector.Wait()

	switch {
	case visitErr != nil:
		return nil, visitErr
	case parseErr != nil:
		return nil, parseErr
	case !matched:
		return nil, fmt.Errorf("no element matching %q on %s", s.Selector, s.URL)
	}

	log.Info().Str("source", s.URL).Int("rates", len(rates)).Msg("market rates scraped")
	return rates, nil
}

// Source names the board the rates were read from.
func (s *Scraper) Source() string {
	return s.URL
}
