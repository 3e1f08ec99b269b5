package networth

import (
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// decimalComparer lets cmp compare decimals by value: 1.0 equals 1.
var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(s string) time.Time {
	on, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return on
}

func amt(q, commodity string) Amount { return Amount{Quantity: dec(q), Commodity: commodity} }

// tx builds a transaction from account/quantity/commodity triplets.
func tx(on string, postings ...string) *Transaction {
	t := &Transaction{Date: day(on)}
	for i := 0; i+2 < len(postings); i += 3 {
		t.Postings = append(t.Postings, Posting{Account: postings[i], Amount: amt(postings[i+1], postings[i+2])})
	}
	return t
}
