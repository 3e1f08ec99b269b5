package networth

import (
	"fmt"
	"time"
)

// MonthlyBalance is the state of the ledger at the end of one calendar month.
type MonthlyBalance struct {
	Year  int
	Month time.Month
	// MonthlyChange holds what the month's transactions changed.
	MonthlyChange Balance
	// Total holds everything from the first transaction to the end of the month.
	Total Balance
}

// LastDay returns the last day of the month.
func (m MonthlyBalance) LastDay() time.Time { return LastDayOfMonth(m.Year, m.Month) }

func (m MonthlyBalance) String() string { return fmt.Sprintf("%d/%02d", m.Year, int(m.Month)) }

// MonthlyReport is the sequence of monthly balances of a ledger, in
// transaction order.
type MonthlyReport []MonthlyBalance

// NewMonthlyReport buckets transactions by calendar month.
//
// Transactions must be sorted by date: a bucket closes whenever the month
// changes, so unsorted input yields several buckets for the same month.
func NewMonthlyReport(transactions []*Transaction) MonthlyReport {
	var report MonthlyReport

	var current *MonthlyBalance
	monthly := make(Balance)
	total := make(Balance)

	flush := func() {
		if current == nil {
			return
		}
		current.MonthlyChange = monthly.Clone()
		current.Total = total.Clone()
		report = append(report, *current)
	}

	for _, t := range transactions {
		year, month, _ := t.Date.Date()
		if current == nil || year != current.Year || month != current.Month {
			// begin new month
			flush()
			current = &MonthlyBalance{Year: year, Month: month}
			monthly = make(Balance)
		}
		monthly.Update(t)
		total.Update(t)
	}
	flush()

	return report
}

// Last returns the last monthly balance and true, or false for an empty
// report.
func (r MonthlyReport) Last() (MonthlyBalance, bool) {
	if len(r) == 0 {
		return MonthlyBalance{}, false
	}
	return r[len(r)-1], true
}
