package networth

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownAccount receives the counter side of imported entries that could
// not be classified.
const UnknownAccount = "Unknown:Unknown"

// Classifier names the counter-account of an imported entry from the words
// of its payee.
type Classifier interface {
	Classify(words []string) string
}

// Source describes an imported statement: the account its entries belong to
// and the commodity they are expressed in.
type Source struct {
	Account   string
	Commodity string
	// Classifier may be nil, every entry then goes to UnknownAccount.
	Classifier Classifier
}

// CounterAccount returns the account that balances an entry of the source.
func (s Source) CounterAccount(payee string) string {
	if s.Classifier == nil {
		return UnknownAccount
	}
	account := s.Classifier.Classify(strings.Fields(payee))
	if account == "" {
		return UnknownAccount
	}
	return account
}

// Transaction builds the two-posting transaction of one statement entry:
// the source account receives the amount and the counter-account its
// opposite.
func (s Source) Transaction(on time.Time, payee string, amount decimal.Decimal, comments ...string) *Transaction {
	return &Transaction{
		Date:  Day(on),
		Payee: payee,
		Postings: []Posting{
			{Account: s.Account, Amount: Amount{Quantity: amount, Commodity: s.Commodity}},
			{Account: s.CounterAccount(payee), Amount: Amount{Quantity: amount.Neg(), Commodity: s.Commodity}},
		},
		Comments: comments,
	}
}
