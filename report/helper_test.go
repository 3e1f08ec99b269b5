package report

import (
	"time"

	"github.com/plenert-macdonald/networth"
	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	on, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return on
}

func tx(on, payee string, postings ...string) *networth.Transaction {
	t := &networth.Transaction{Date: day(on), Payee: payee}
	for i := 0; i+2 < len(postings); i += 3 {
		t.Postings = append(t.Postings, networth.Posting{
			Account: postings[i],
			Amount:  networth.Amount{Quantity: decimal.RequireFromString(postings[i+1]), Commodity: postings[i+2]},
		})
	}
	return t
}

var testGroups = []networth.Group{
	{Name: "Liquid", Prefixes: []string{"Assets:Liquid"}, Kind: networth.Asset},
	{Name: "Crypto", Prefixes: []string{"Assets:Crypto"}, Kind: networth.Asset, TaxRate: decimal.RequireFromString("0.32")},
	{Name: "Income", Prefixes: []string{"Income"}, Kind: networth.Income},
	{Name: "Expenses", Prefixes: []string{"Expenses"}, Kind: networth.Expense},
}

func testLedger() (*networth.Ledger, *networth.Prices) {
	l := &networth.Ledger{
		Transactions: []*networth.Transaction{
			tx("2021-01-05", "Salary", "Assets:Liquid:Bank", "5000", "PLN", "Income:Salary", "-5000", "PLN"),
			tx("2021-01-20", "Grocery", "Expenses:Food", "300", "PLN", "Assets:Liquid:Bank", "-300", "PLN"),
			tx("2021-02-10", "Exchange", "Assets:Crypto", "0.01", "BTC", "Assets:Liquid:Bank", "-1000", "PLN"),
			tx("2021-02-25", "Grocery", "Expenses:Food", "200", "PLN", "Assets:Liquid:Bank", "-200", "PLN"),
		},
	}
	prices := networth.NewPrices()
	prices.AddPrice("BTC", "PLN", decimal.NewFromInt(100000), day("2021-01-01"))
	prices.AddPrice("BTC", "PLN", decimal.NewFromInt(120000), day("2021-02-15"))
	return l, prices
}

var testParams = Params{Commodity: "PLN", DecimalPoints: 2, Groups: testGroups}
