// Package report turns a ledger into the data of the net worth report: the
// monthly table, the assets and expenses charts and the summary tree, and
// renders it as Markdown or as a single HTML page.
package report

import (
	"time"

	"github.com/plenert-macdonald/networth"
)

// Params configures the valuation of a report.
type Params struct {
	Commodity     string
	DecimalPoints int32
	// AsOf is the valuation date of the summary tree. The zero value uses
	// the last day of the last month of the ledger.
	AsOf   time.Time
	Groups []networth.Group
}

// Calculator returns the calculator of the report in its main commodity.
func (p Params) Calculator(prices *networth.Prices) networth.Calculator {
	return networth.Calculator{
		Prices:        prices,
		Commodity:     p.Commodity,
		DecimalPoints: p.DecimalPoints,
		Date:          p.AsOf,
	}
}

// Data is everything a report shows.
type Data struct {
	Params   Params
	Monthly  *MonthlyTable
	Assets   *Chart
	Expenses *Chart
	Tree     *networth.TreeNode
	// AsOf is the date the tree was valued on.
	AsOf time.Time
}

// Build computes the report data of a ledger. Transactions must be sorted
// by date.
func Build(l *networth.Ledger, prices *networth.Prices, p Params) *Data {
	monthly := networth.NewMonthlyReport(l.Transactions)
	calc := p.Calculator(prices)

	table := NewMonthlyTable(monthly, calc, p.Groups)

	asOf := p.AsOf
	if last, ok := monthly.Last(); ok && asOf.IsZero() {
		asOf = last.LastDay()
	}

	return &Data{
		Params:   p,
		Monthly:  table,
		Assets:   AssetsChart(table),
		Expenses: ExpensesChart(table),
		Tree:     SummaryTree(monthly, calc.On(asOf)),
		AsOf:     asOf,
	}
}

// SummaryTree is the display tree of the final running total of r, valued
// by c. An empty report gives a lone root.
func SummaryTree(r networth.MonthlyReport, c networth.Calculator) *networth.TreeNode {
	total := networth.Balance{}
	if last, ok := r.Last(); ok {
		total = last.Total
	}
	return networth.NewTreeBalance(total).Display("/", c)
}
