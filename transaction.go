package networth

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNeedAtLeastTwoPostings        = errors.New("need at least two postings")
	ErrNoEmptyAccountForExtraBalance = errors.New("unable to balance transaction: no empty account to place extra balance")
	ErrMoreThanOneEmptyAccountInTx   = errors.New("unable to balance transaction: more than one account empty")
	ErrResidualInSeveralCommodities  = errors.New("unable to balance transaction: extra balance spans several commodities")
)

// IsBalanced returns nil if the transaction is balanced to 0, otherwise an error.
//
// A single empty posting receives the remaining balance. A transaction whose
// remaining balance spans exactly two commodities and has no empty posting is
// an exchange between them and is accepted as is.
func (t *Transaction) IsBalanced() error {
	if len(t.Postings) < 2 {
		return ErrNeedAtLeastTwoPostings
	}

	residual := make(map[string]decimal.Decimal)
	var numEmpty int
	var emptyIndex int

	for i, p := range t.Postings {
		if p.Amount.Quantity.IsZero() && p.TotalPrice == nil && p.UnitPrice == nil {
			numEmpty++
			emptyIndex = i
			continue
		}
		c := p.cost()
		residual[c.Commodity] = residual[c.Commodity].Add(c.Quantity)
	}

	var open []string
	for commodity, q := range residual {
		if !q.IsZero() {
			open = append(open, commodity)
		}
	}
	if len(open) == 0 {
		return nil
	}

	switch numEmpty {
	case 0:
		if len(open) == 2 {
			return nil
		}
		return ErrNoEmptyAccountForExtraBalance
	case 1:
		if len(open) > 1 {
			return ErrResidualInSeveralCommodities
		}
		// If there is a single empty account, then it is obvious where to
		// place the remaining balance.
		t.Postings[emptyIndex].Amount = Amount{Quantity: residual[open[0]].Neg(), Commodity: open[0]}
	default:
		return ErrMoreThanOneEmptyAccountInTx
	}

	return nil
}

// SortTransactions sorts transactions by date. Transactions of the same day
// keep their relative order.
func SortTransactions(transactions []*Transaction) {
	slices.SortStableFunc(transactions, func(a, b *Transaction) int {
		return a.Date.Compare(b.Date)
	})
}

// TransactionsInDateRange returns the transactions with start <= date < end.
// The input must be sorted by date.
func TransactionsInDateRange(transactions []*Transaction, start, end time.Time) []*Transaction {
	first, _ := slices.BinarySearchFunc(transactions, start, func(t *Transaction, on time.Time) int {
		return t.Date.Compare(on)
	})
	last, _ := slices.BinarySearchFunc(transactions, end, func(t *Transaction, on time.Time) int {
		return t.Date.Compare(on)
	})
	if last < first {
		return nil
	}
	return transactions[first:last]
}

// JoinLedgers concatenates the transactions and price directives of several
// ledgers, in argument order.
func JoinLedgers(ledgers ...*Ledger) *Ledger {
	joined := &Ledger{}
	for _, l := range ledgers {
		if l == nil {
			continue
		}
		joined.Transactions = append(joined.Transactions, l.Transactions...)
		joined.Prices = append(joined.Prices, l.Prices...)
	}
	return joined
}
