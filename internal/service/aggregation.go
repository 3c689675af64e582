package service

import (
	"context"

	"github.com/shopspring/decimal"

	"kursbot/internal/domain"
)

// CurrencySummary holds the computed statistics for one currency along
// with the rendered message block. A side average is nil when no
// organization quoted that side.
type CurrencySummary struct {
	Currency domain.Currency
	BidAvg   *decimal.Decimal
	AskAvg   *decimal.Decimal
	Overall  decimal.Decimal
	Text     string
}

// Aggregation computes per-currency bid/ask statistics over the cached
// organization snapshot and renders them as message blocks.
type Aggregation struct {
	cache *RateCache
}

// NewAggregation creates an aggregation engine over the given cache.
func NewAggregation(cache *RateCache) *Aggregation {
	return &Aggregation{cache: cache}
}

// Aggregate returns one summary per requested currency, in request order,
// duplicates preserved. A nil entry means no organization currently
// quotes that currency. The snapshot is only read, so concurrent calls
// for different users are safe.
func (a *Aggregation) Aggregate(ctx context.Context, currencies []domain.Currency) ([]*CurrencySummary, error) {
	organizations, err := a.cache.GetData(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*CurrencySummary, 0, len(currencies))
	for _, currency := range currencies {
		out = append(out, summarize(currency, organizations))
	}
	return out, nil
}

// summarize averages all present bid and ask values for one currency.
// Empty sides are excluded from their mean, never counted as zero. Each
// intermediate mean is rounded to 2 decimals before the overall mean is
// taken, so the overall is a mean of already rounded values; this matches
// the numbers users have seen historically.
func summarize(currency domain.Currency, organizations []domain.Organization) *CurrencySummary {
	var bids, asks []decimal.Decimal
	for _, org := range organizations {
		quote, ok := org.QuoteFor(currency)
		if !ok {
			continue
		}
		if quote.Bid != "" {
			if d, err := decimal.NewFromString(quote.Bid); err == nil {
				bids = append(bids, d)
			}
		}
		if quote.Ask != "" {
			if d, err := decimal.NewFromString(quote.Ask); err == nil {
				asks = append(asks, d)
			}
		}
	}

	if len(bids) == 0 && len(asks) == 0 {
		return nil
	}

	summary := &CurrencySummary{Currency: currency}

	var sides []decimal.Decimal
	if len(asks) > 0 {
		askAvg := mean(asks).Round(2)
		summary.AskAvg = &askAvg
		sides = append(sides, askAvg)
	}
	if len(bids) > 0 {
		bidAvg := mean(bids).Round(2)
		summary.BidAvg = &bidAvg
		sides = append(sides, bidAvg)
	}
	summary.Overall = mean(sides).Round(2)
	summary.Text = render(summary)

	return summary
}

func mean(values []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}

// render builds the message block for one currency. The builder is local
// to the call, so concurrent renders cannot interleave lines.
func render(s *CurrencySummary) string {
	b := NewResponseBuilder()
	b.AddBoldLine(s.Currency.WithFlag() + ":")
	if s.BidAvg != nil {
		b.AddLine("buy: " + s.BidAvg.String() + " UAH")
	}
	if s.AskAvg != nil {
		b.AddLine("sell: " + s.AskAvg.String() + " UAH")
	}
	b.AddLine("average: " + s.Overall.String() + " UAH")
	return b.Response()
}
