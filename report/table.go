package report

import (
	"strings"
	"time"

	"github.com/plenert-macdonald/networth"
	"github.com/shopspring/decimal"
)

// GroupValue is the value of one group at the end of a month. Tax stays
// zero for untaxed groups.
type GroupValue struct {
	Net networth.Value
	Tax networth.Value
}

// MonthlyRow holds the group values of one month.
type MonthlyRow struct {
	Date time.Time
	// AssetsTotalNet sums the net values of the asset groups.
	AssetsTotalNet networth.Value
	Groups         []GroupValue
}

// MonthlyTable values every group at the end of every month of a report.
type MonthlyTable struct {
	Groups        []networth.Group
	DecimalPoints int32
	Rows          []MonthlyRow
}

// NewMonthlyTable values the running totals of r month by month. Each month
// is valued on its last day.
func NewMonthlyTable(r networth.MonthlyReport, c networth.Calculator, groups []networth.Group) *MonthlyTable {
	t := &MonthlyTable{
		Groups:        groups,
		DecimalPoints: c.DecimalPoints,
		Rows:          make([]MonthlyRow, 0, len(r)),
	}
	for _, mb := range r {
		calc := c.On(mb.LastDay())
		row := MonthlyRow{
			Date:           mb.LastDay(),
			AssetsTotalNet: networth.Value{Amount: decimal.Zero, Known: true},
			Groups:         make([]GroupValue, len(groups)),
		}
		for i, g := range groups {
			v := calc.GroupValue(mb.Total, g)
			gv := GroupValue{Net: v, Tax: networth.Value{Amount: decimal.Zero, Known: true}}
			if g.Taxed() {
				gv.Net, gv.Tax = calc.NetOfTax(v, g.TaxRate)
			}
			row.Groups[i] = gv
			if g.Kind == networth.Asset {
				row.AssetsTotalNet = row.AssetsTotalNet.Add(gv.Net)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Headers names the columns: the date, the assets total, then one column
// per group or two (net and tax) for taxed groups.
func (t *MonthlyTable) Headers() []string {
	headers := []string{"Date", "Assets Total Net"}
	for _, g := range t.Groups {
		if g.Taxed() {
			headers = append(headers, g.Name+" Net", g.Name+" Tax")
			continue
		}
		headers = append(headers, g.Name)
	}
	return headers
}

// Cells formats one row in the order of Headers.
func (t *MonthlyTable) Cells(row MonthlyRow) []string {
	cells := []string{
		row.Date.Format("2006/01"),
		t.format(row.AssetsTotalNet),
	}
	for i, g := range t.Groups {
		cells = append(cells, t.format(row.Groups[i].Net))
		if g.Taxed() {
			cells = append(cells, t.format(row.Groups[i].Tax))
		}
	}
	return cells
}

func (t *MonthlyTable) format(v networth.Value) string {
	return v.Amount.StringFixed(t.DecimalPoints)
}

// Table returns the formatted table.
func (t *MonthlyTable) Table() Table {
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, t.Cells(row))
	}
	return Table{Headers: t.Headers(), Rows: rows}
}

// Column returns the values of a group, net of tax, or nil for an unknown
// group.
func (t *MonthlyTable) Column(group string) []decimal.Decimal {
	for i, g := range t.Groups {
		if g.Name != group {
			continue
		}
		col := make([]decimal.Decimal, len(t.Rows))
		for r, row := range t.Rows {
			col[r] = row.Groups[i].Net.Amount
		}
		return col
	}
	return nil
}

// Table is a plain table of text cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Markdown renders t as a GitHub flavoured Markdown table. Every column
// but the first is right aligned.
func Markdown(t Table) string {
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(strings.ReplaceAll(c, "|", `\|`))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(t.Headers)
	b.WriteString("|")
	for i := range t.Headers {
		if i == 0 {
			b.WriteString(" --- |")
		} else {
			b.WriteString(" ---: |")
		}
	}
	b.WriteString("\n")
	for _, row := range t.Rows {
		writeRow(row)
	}
	return b.String()
}
