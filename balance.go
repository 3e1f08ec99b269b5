package networth

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the balance of one account: it maps commodity names to
// quantities. It never holds a zero quantity.
type AccountBalance map[string]decimal.Decimal

// Add adds other into b.
func (b *AccountBalance) Add(other AccountBalance) {
	b.merge(other, decimal.Decimal.Add)
}

// Sub subtracts other from b.
func (b *AccountBalance) Sub(other AccountBalance) {
	b.merge(other, decimal.Decimal.Sub)
}

// AddAmount adds a single amount into b.
func (b *AccountBalance) AddAmount(a Amount) {
	b.merge(AccountBalance{a.Commodity: a.Quantity}, decimal.Decimal.Add)
}

func (b *AccountBalance) merge(other AccountBalance, op func(decimal.Decimal, decimal.Decimal) decimal.Decimal) {
	if *b == nil {
		*b = make(AccountBalance, len(other))
	}
	for commodity, q := range other {
		// a missing entry reads as zero
		(*b)[commodity] = op((*b)[commodity], q)
	}
	b.removeEmpties()
}

func (b AccountBalance) removeEmpties() {
	for commodity, q := range b {
		if q.IsZero() {
			delete(b, commodity)
		}
	}
}

// Clone returns a copy of b.
func (b AccountBalance) Clone() AccountBalance {
	c := make(AccountBalance, len(b))
	for commodity, q := range b {
		c[commodity] = q
	}
	return c
}

// Commodities returns the commodity names held, sorted.
func (b AccountBalance) Commodities() []string {
	names := make([]string, 0, len(b))
	for commodity := range b {
		names = append(names, commodity)
	}
	slices.Sort(names)
	return names
}

// Amounts returns the held amounts sorted by commodity.
func (b AccountBalance) Amounts() []Amount {
	amounts := make([]Amount, 0, len(b))
	for _, commodity := range b.Commodities() {
		amounts = append(amounts, Amount{Quantity: b[commodity], Commodity: commodity})
	}
	return amounts
}

// Equal reports whether both balances hold the same quantities.
func (b AccountBalance) Equal(other AccountBalance) bool {
	if len(b) != len(other) {
		return false
	}
	for commodity, q := range b {
		o, ok := other[commodity]
		if !ok || !q.Equal(o) {
			return false
		}
	}
	return true
}

// String formats the balance as a comma separated list of amounts.
func (b AccountBalance) String() string {
	parts := make([]string, 0, len(b))
	for _, a := range b.Amounts() {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ", ")
}

// ValueIn sums every held commodity converted into commodity on the given
// date. The first failed conversion is returned.
func (b AccountBalance) ValueIn(commodity string, on time.Time, prices *Prices) (decimal.Decimal, error) {
	result := decimal.Zero
	// sorted so the reported error does not depend on map order
	for _, held := range b.Commodities() {
		v, err := prices.Convert(b[held], held, commodity, on)
		if err != nil {
			return decimal.Zero, err
		}
		result = result.Add(v)
	}
	return result, nil
}

// ValueInRounded is ValueIn rounded half away from zero to places decimal
// places. A failed conversion reports zero.
func (b AccountBalance) ValueInRounded(commodity string, places int32, on time.Time, prices *Prices) decimal.Decimal {
	v, err := b.ValueIn(commodity, on, prices)
	if err != nil {
		return decimal.Zero
	}
	return v.Round(places)
}

// Balance holds the balances of one or more accounts. It maps account names
// to their balances and never holds an empty account balance.
type Balance map[string]AccountBalance

// NewBalance returns the balance of all the transactions.
func NewBalance(transactions []*Transaction) Balance {
	b := make(Balance)
	for _, t := range transactions {
		b.Update(t)
	}
	return b
}

// Update adds every posting of the transaction into b.
func (b *Balance) Update(t *Transaction) {
	if *b == nil {
		*b = make(Balance)
	}
	for _, p := range t.Postings {
		ab := (*b)[p.Account]
		ab.AddAmount(p.Amount)
		(*b)[p.Account] = ab
	}
	b.removeEmpties()
}

// Add adds other into b, account by account.
func (b *Balance) Add(other Balance) {
	b.merge(other, (*AccountBalance).Add)
}

// Sub subtracts other from b, account by account.
func (b *Balance) Sub(other Balance) {
	b.merge(other, (*AccountBalance).Sub)
}

func (b *Balance) merge(other Balance, op func(*AccountBalance, AccountBalance)) {
	if *b == nil {
		*b = make(Balance, len(other))
	}
	for account, ob := range other {
		ab := (*b)[account]
		op(&ab, ob)
		(*b)[account] = ab
	}
	b.removeEmpties()
}

func (b Balance) removeEmpties() {
	for account, ab := range b {
		if len(ab) == 0 {
			delete(b, account)
		}
	}
}

// Clone returns a deep copy of b.
func (b Balance) Clone() Balance {
	c := make(Balance, len(b))
	for account, ab := range b {
		c[account] = ab.Clone()
	}
	return c
}

// Accounts returns the account names, sorted.
func (b Balance) Accounts() []string {
	names := make([]string, 0, len(b))
	for account := range b {
		names = append(names, account)
	}
	slices.Sort(names)
	return names
}

// Equal reports whether both balances hold the same accounts and quantities.
func (b Balance) Equal(other Balance) bool {
	if len(b) != len(other) {
		return false
	}
	for account, ab := range b {
		o, ok := other[account]
		if !ok || !ab.Equal(o) {
			return false
		}
	}
	return true
}

// AccountBalance returns the sum of every account whose name starts with any
// of the prefixes. Prefixes match the raw name: "Assets:C" matches both
// "Assets:Cash" and "Assets:Card".
func (b Balance) AccountBalance(prefixes ...string) AccountBalance {
	result := make(AccountBalance)
	for account, ab := range b {
		for _, prefix := range prefixes {
			if strings.HasPrefix(account, prefix) {
				result.Add(ab)
				break
			}
		}
	}
	return result
}
