package networth

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSeparator separates the segments of an account path.
const AccountSeparator = ":"

// Amount is a quantity of a single commodity.
type Amount struct {
	Quantity  decimal.Decimal
	Commodity string
}

// String formats the amount as "QUANTITY COMMODITY".
func (a Amount) String() string {
	if a.Commodity == "" {
		return a.Quantity.String()
	}
	return a.Quantity.String() + " " + a.Commodity
}

// Posting holds the account name and the amount it changes by.
type Posting struct {
	Account string
	Amount  Amount
	Comment string

	// Total cost using @@ notation
	TotalPrice *Amount
	// Unit cost using @ notation
	UnitPrice *Amount
}

// cost returns what the posting weighs when the transaction is balanced.
func (p Posting) cost() Amount {
	switch {
	case p.TotalPrice != nil:
		q := p.TotalPrice.Quantity
		if p.Amount.Quantity.IsNegative() {
			q = q.Neg()
		}
		return Amount{Quantity: q, Commodity: p.TotalPrice.Commodity}
	case p.UnitPrice != nil:
		return Amount{Quantity: p.Amount.Quantity.Mul(p.UnitPrice.Quantity), Commodity: p.UnitPrice.Commodity}
	default:
		return p.Amount
	}
}

// Transaction is the basis of a ledger. The ledger holds a list of transactions.
// A Transaction has a Payee, Date (with no time, or to put another way, with
// hours,minutes,seconds values that probably doesn't make sense), and a list of
// Postings that hold the value of the transaction for each account.
type Transaction struct {
	Date         time.Time
	Payee        string
	PayeeComment string
	Postings     []Posting
	Comments     []string
}

// PriceDirective states that one unit of Commodity is worth Price on Date.
type PriceDirective struct {
	Date      time.Time
	Commodity string
	Price     Amount
}

// Ledger is what a ledger file holds once parsed.
type Ledger struct {
	Transactions []*Transaction
	Prices       []PriceDirective
}

// Day truncates t to its calendar day at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LastDayOfMonth returns the last day of the given month.
func LastDayOfMonth(year int, month time.Month) time.Time {
	// the day before the first of the next month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}
