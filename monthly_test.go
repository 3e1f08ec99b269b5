package networth

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMonthlyReportEmpty(t *testing.T) {
	if r := NewMonthlyReport(nil); len(r) != 0 {
		t.Errorf("NewMonthlyReport(nil) = %v, want no months", r)
	}
	if _, ok := MonthlyReport(nil).Last(); ok {
		t.Error("Last() of an empty report reported a month")
	}
}

func TestMonthlyReport(t *testing.T) {
	transactions := []*Transaction{
		tx("2021-01-05", "Assets:Cash", "100", "PLN", "Income:Job", "-100", "PLN"),
		tx("2021-01-31", "Expenses:Food", "20", "PLN", "Assets:Cash", "-20", "PLN"),
		// no February
		tx("2021-03-01", "Assets:Bank", "10", "USD", "Assets:Cash", "-40", "PLN"),
		tx("2021-03-15", "Expenses:Food", "40", "PLN", "Assets:Cash", "-40", "PLN"),
	}
	r := NewMonthlyReport(transactions)

	months := make([]string, len(r))
	for i, m := range r {
		months[i] = m.String()
	}
	if diff := cmp.Diff([]string{"2021/01", "2021/03"}, months); diff != "" {
		t.Fatalf("months mismatch (-want +got):\n%s", diff)
	}

	wantJanuary := Balance{
		"Assets:Cash":   {"PLN": dec("80")},
		"Income:Job":    {"PLN": dec("-100")},
		"Expenses:Food": {"PLN": dec("20")},
	}
	if diff := cmp.Diff(wantJanuary, r[0].Total, decimalComparer); diff != "" {
		t.Errorf("January total mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantJanuary, r[0].MonthlyChange, decimalComparer); diff != "" {
		t.Errorf("January change mismatch (-want +got):\n%s", diff)
	}

	wantMarchChange := Balance{
		"Assets:Bank":   {"USD": dec("10")},
		"Assets:Cash":   {"PLN": dec("-80")},
		"Expenses:Food": {"PLN": dec("40")},
	}
	if diff := cmp.Diff(wantMarchChange, r[1].MonthlyChange, decimalComparer); diff != "" {
		t.Errorf("March change mismatch (-want +got):\n%s", diff)
	}
	wantMarch := Balance{
		"Assets:Bank":   {"USD": dec("10")},
		"Income:Job":    {"PLN": dec("-100")},
		"Expenses:Food": {"PLN": dec("60")},
	}
	if diff := cmp.Diff(wantMarch, r[1].Total, decimalComparer); diff != "" {
		t.Errorf("March total mismatch (-want +got):\n%s", diff)
	}

	last, ok := r.Last()
	if !ok || last.String() != "2021/03" {
		t.Errorf("Last() = %v, %v, want 2021/03", last, ok)
	}
	if want := time.Date(2021, time.March, 31, 0, 0, 0, 0, time.UTC); !last.LastDay().Equal(want) {
		t.Errorf("LastDay() = %v, want %v", last.LastDay(), want)
	}
}

func TestMonthlyReportTotalsAccumulate(t *testing.T) {
	var transactions []*Transaction
	for _, on := range []string{"2020-11-30", "2020-12-01", "2020-12-31", "2021-01-01", "2021-04-10", "2021-04-11"} {
		transactions = append(transactions,
			tx(on, "Assets:Cash", "12.34", "PLN", "Assets:Bank", "-3", "USD"),
			tx(on, "Expenses:Misc", "1", "EUR", "Assets:Cash", "-1", "EUR"),
		)
	}
	r := NewMonthlyReport(transactions)
	if len(r) != 4 {
		t.Fatalf("len(report) = %d, want 4", len(r))
	}

	previous := make(Balance)
	for _, m := range r {
		want := previous.Clone()
		want.Add(m.MonthlyChange)
		if !want.Equal(m.Total) {
			t.Errorf("%s: total %v, want previous total plus change %v", m, m.Total, want)
		}
		previous = m.Total
	}
}

func TestMonthlyReportSnapshotsAreIndependent(t *testing.T) {
	r := NewMonthlyReport([]*Transaction{
		tx("2021-01-05", "Assets:Cash", "100", "PLN", "Income:Job", "-100", "PLN"),
		tx("2021-02-05", "Assets:Cash", "100", "PLN", "Income:Job", "-100", "PLN"),
	})
	r[1].Total.Add(Balance{"Assets:Cash": {"PLN": dec("1")}})
	if got := r[0].Total["Assets:Cash"]["PLN"]; !got.Equal(dec("100")) {
		t.Errorf("January Assets:Cash = %v after changing February, want 100", got)
	}
}

func TestMonthlyReportUnsortedInput(t *testing.T) {
	r := NewMonthlyReport([]*Transaction{
		tx("2021-01-05", "Assets:Cash", "1", "PLN", "Income:Job", "-1", "PLN"),
		tx("2021-02-05", "Assets:Cash", "1", "PLN", "Income:Job", "-1", "PLN"),
		tx("2021-01-20", "Assets:Cash", "1", "PLN", "Income:Job", "-1", "PLN"),
	})

	tests := []struct {
		month string
		total string
	}{
		{"2021/01", "1"},
		{"2021/02", "2"},
		{"2021/01", "3"},
	}
	if len(r) != len(tests) {
		t.Fatalf("len(report) = %d, want %d", len(r), len(tests))
	}
	for i, tt := range tests {
		if got := r[i].String(); got != tt.month {
			t.Errorf("month %d = %s, want %s", i, got, tt.month)
		}
		if got := r[i].Total["Assets:Cash"]["PLN"]; !got.Equal(dec(tt.total)) {
			t.Errorf("%s total = %v, want %s", tt.month, got, tt.total)
		}
		if got := r[i].MonthlyChange["Assets:Cash"]["PLN"]; !got.Equal(dec("1")) {
			t.Errorf("%s change = %v, want 1", tt.month, got)
		}
	}
}
