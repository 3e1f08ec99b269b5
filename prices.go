package networth

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

var (
	ErrNoSuchCommoditiesPair = errors.New("no such commodities pair")
	ErrDateTooEarly          = errors.New("date too early")
)

// CommoditiesPair is an ordered pair of commodities: rates of a pair express
// one unit of Src in Dst.
type CommoditiesPair struct {
	Src string
	Dst string
}

func (p CommoditiesPair) String() string { return p.Src + "/" + p.Dst }

// Rate is one observation of a RatesTable.
type Rate struct {
	Date time.Time
	Rate decimal.Decimal
}

// RatesTable stores the rates of one pair sorted by date, at most one per
// day.
type RatesTable struct {
	days  []time.Time
	rates []decimal.Decimal
}

// set inserts or overwrites the rate of a day.
func (t *RatesTable) set(on time.Time, rate decimal.Decimal) {
	i, found := slices.BinarySearchFunc(t.days, on, time.Time.Compare)
	if found {
		// later data wins
		t.rates[i] = rate
		return
	}
	t.days = slices.Insert(t.days, i, on)
	t.rates = slices.Insert(t.rates, i, rate)
}

// RateAsOf returns the rate on a given day, or the most recent rate before
// it. It never uses a rate from after the day.
func (t *RatesTable) RateAsOf(on time.Time) (decimal.Decimal, error) {
	i, found := slices.BinarySearchFunc(t.days, on, time.Time.Compare)
	if found {
		return t.rates[i], nil
	}
	// i is where the day would be inserted: the last rate before it is at i-1
	if i == 0 {
		return decimal.Zero, ErrDateTooEarly
	}
	return t.rates[i-1], nil
}

// Len returns the number of observations.
func (t *RatesTable) Len() int { return len(t.days) }

// Rates returns all observations in chronological order.
func (t *RatesTable) Rates() []Rate {
	rates := make([]Rate, len(t.days))
	for i, on := range t.days {
		rates[i] = Rate{Date: on, Rate: t.rates[i]}
	}
	return rates
}

// Prices is the historical exchange-rate table between commodities. The zero
// value is an empty table ready to use.
type Prices struct {
	rates map[CommoditiesPair]*RatesTable
	// memoised lookups, flushed on every insertion
	lookups *cache.Cache
}

// ratePrecision is the number of decimal places kept by divided rates.
const ratePrecision = 28

// NewPrices returns an empty rate table.
func NewPrices() *Prices {
	p := new(Prices)
	p.init()
	return p
}

func (p *Prices) init() {
	if p.rates == nil {
		p.rates = make(map[CommoditiesPair]*RatesTable)
	}
	if p.lookups == nil {
		p.lookups = cache.New(cache.NoExpiration, 0)
	}
}

// LoadPrices builds the rate table from, in this order, the price
// directives of an optional external prices ledger, the directives of the
// main ledger, and the rates implied by the main ledger transactions. Later
// rates for the same pair and day overwrite earlier ones.
func LoadPrices(l *Ledger, external *Ledger) *Prices {
	p := NewPrices()
	if external != nil {
		p.AddDirectives(external.Prices)
	}
	if l != nil {
		p.AddDirectives(l.Prices)
		p.AddDirectives(ImpliedPrices(l.Transactions))
	}
	return p
}

// AddDirectives inserts every directive, in order.
func (p *Prices) AddDirectives(directives []PriceDirective) {
	for _, d := range directives {
		p.AddPrice(d.Commodity, d.Price.Commodity, d.Price.Quantity, d.Date)
	}
}

// AddPrice records that one src is worth rate dst on the given day, and the
// reciprocal rate for dst to src. Zero rates are ignored.
func (p *Prices) AddPrice(src, dst string, rate decimal.Decimal, on time.Time) {
	if rate.IsZero() {
		return
	}
	p.init()
	on = Day(on)
	p.set(CommoditiesPair{Src: src, Dst: dst}, on, rate)
	p.set(CommoditiesPair{Src: dst, Dst: src}, on, decimal.NewFromInt(1).DivRound(rate, ratePrecision))
	p.lookups.Flush()
}

func (p *Prices) set(pair CommoditiesPair, on time.Time, rate decimal.Decimal) {
	table, ok := p.rates[pair]
	if !ok {
		table = new(RatesTable)
		p.rates[pair] = table
	}
	table.set(on, rate)
}

type lookup struct {
	rate decimal.Decimal
	err  error
}

// Rate returns the rate of src in dst valid on the given day: the latest
// observation not after it.
func (p *Prices) Rate(src, dst string, on time.Time) (decimal.Decimal, error) {
	if p == nil {
		return decimal.Zero, fmt.Errorf("%w: %s/%s", ErrNoSuchCommoditiesPair, src, dst)
	}
	p.init()
	on = Day(on)
	key := src + "\x00" + dst + "\x00" + on.Format(time.DateOnly)
	if v, ok := p.lookups.Get(key); ok {
		l := v.(lookup)
		return l.rate, l.err
	}
	rate, err := p.rate(src, dst, on)
	p.lookups.Set(key, lookup{rate: rate, err: err}, cache.NoExpiration)
	return rate, err
}

func (p *Prices) rate(src, dst string, on time.Time) (decimal.Decimal, error) {
	table, ok := p.rates[CommoditiesPair{Src: src, Dst: dst}]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s/%s", ErrNoSuchCommoditiesPair, src, dst)
	}
	rate, err := table.RateAsOf(on)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: no %s/%s rate on or before %s", err, src, dst, on.Format(time.DateOnly))
	}
	return rate, nil
}

// Convert converts a quantity of src into dst using the rate valid on the
// given day. Converting a commodity into itself never needs a rate.
func (p *Prices) Convert(quantity decimal.Decimal, src, dst string, on time.Time) (decimal.Decimal, error) {
	if src == dst {
		return quantity, nil
	}
	rate, err := p.Rate(src, dst, on)
	if err != nil {
		return decimal.Zero, err
	}
	return quantity.Mul(rate), nil
}

// Pairs returns the known pairs sorted by source then destination.
func (p *Prices) Pairs() []CommoditiesPair {
	pairs := make([]CommoditiesPair, 0, len(p.rates))
	for pair := range p.rates {
		pairs = append(pairs, pair)
	}
	slices.SortFunc(pairs, func(a, b CommoditiesPair) int {
		if c := strings.Compare(a.Src, b.Src); c != 0 {
			return c
		}
		return strings.Compare(a.Dst, b.Dst)
	})
	return pairs
}

// Table returns the rates table of a pair, or nil.
func (p *Prices) Table(src, dst string) *RatesTable {
	return p.rates[CommoditiesPair{Src: src, Dst: dst}]
}

// ImpliedPrices derives price directives from the transactions that
// exchange one commodity for another: exactly two postings in different
// commodities, both non-zero. One unit of the first posting's commodity is
// worth -q1/q0 of the second's.
func ImpliedPrices(transactions []*Transaction) []PriceDirective {
	var result []PriceDirective
	for _, t := range transactions {
		if len(t.Postings) != 2 {
			continue
		}
		a, b := t.Postings[0].Amount, t.Postings[1].Amount
		if a.Commodity == b.Commodity || a.Quantity.IsZero() || b.Quantity.IsZero() {
			continue
		}
		result = append(result, PriceDirective{
			Date:      Day(t.Date),
			Commodity: a.Commodity,
			Price: Amount{
				Quantity:  b.Quantity.Neg().DivRound(a.Quantity, ratePrecision),
				Commodity: b.Commodity,
			},
		})
	}
	return result
}
