package report

import (
	"time"

	"github.com/plenert-macdonald/networth"
	"github.com/shopspring/decimal"
)

const smaSize = 12

// Point is one dated value of a series.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is a named line of a chart. Area series are drawn stacked and
// filled, the others as plain lines.
type Series struct {
	Key    string
	Area   bool
	Points []Point
}

// Chart is a set of series sharing the same dates.
type Chart struct {
	ID     string
	MinX   time.Time
	MaxX   time.Time
	Series []Series
}

func newChart(id string, t *MonthlyTable) *Chart {
	if len(t.Rows) == 0 {
		return nil
	}
	return &Chart{
		ID:   id,
		MinX: t.Rows[0].Date,
		MaxX: t.Rows[len(t.Rows)-1].Date,
	}
}

// AssetsChart plots the asset groups month by month, taxed groups as two
// series (net and tax). It returns nil for an empty table.
func AssetsChart(t *MonthlyTable) *Chart {
	chart := newChart("assetsChart", t)
	if chart == nil {
		return nil
	}
	for i, g := range t.Groups {
		if g.Kind != networth.Asset {
			continue
		}
		net := Series{Key: g.Name, Area: true}
		tax := Series{Key: g.Name + " Tax", Area: true}
		if g.Taxed() {
			net.Key = g.Name + " Net"
		}
		for _, row := range t.Rows {
			net.Points = append(net.Points, Point{Date: row.Date, Value: row.Groups[i].Net.Amount.InexactFloat64()})
			tax.Points = append(tax.Points, Point{Date: row.Date, Value: row.Groups[i].Tax.Amount.InexactFloat64()})
		}
		chart.Series = append(chart.Series, net)
		if g.Taxed() {
			chart.Series = append(chart.Series, tax)
		}
	}
	return chart
}

// ExpensesChart plots what was spent each month across the expense groups,
// with its simple moving average over twelve months. It returns nil for an
// empty table.
func ExpensesChart(t *MonthlyTable) *Chart {
	chart := newChart("expensesChart", t)
	if chart == nil {
		return nil
	}

	// running expense totals
	totals := make([]decimal.Decimal, len(t.Rows))
	for r, row := range t.Rows {
		for i, g := range t.Groups {
			if g.Kind == networth.Expense {
				totals[r] = totals[r].Add(row.Groups[i].Net.Amount)
			}
		}
	}

	monthly := Series{Key: "Monthly Expenses", Area: true}
	sma := Series{Key: "SMA12"}
	size := decimal.NewFromInt(smaSize)
	for pos, row := range t.Rows {
		previous := decimal.Zero
		if pos > 0 {
			previous = totals[pos-1]
		}
		monthly.Points = append(monthly.Points, Point{Date: row.Date, Value: totals[pos].Sub(previous).InexactFloat64()})

		windowStart := decimal.Zero
		if pos >= smaSize {
			windowStart = totals[pos-smaSize]
		}
		sma.Points = append(sma.Points, Point{Date: row.Date, Value: totals[pos].Sub(windowStart).Div(size).InexactFloat64()})
	}
	chart.Series = []Series{monthly, sma}
	return chart
}
