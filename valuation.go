package networth

import (
	"time"

	"github.com/shopspring/decimal"
)

// GroupKind tells what a group of accounts stands for in the reports.
type GroupKind string

const (
	Asset   GroupKind = "asset"
	Income  GroupKind = "income"
	Expense GroupKind = "expense"
)

// Group is a named set of account prefixes whose balances are reported as
// one value, e.g. "Liquid Assets" for "Assets:Liquid:".
type Group struct {
	Name     string
	Prefixes []string
	Kind     GroupKind
	// TaxRate is the share of the value owed as tax when realised. Zero
	// means untaxed.
	TaxRate decimal.Decimal
}

// Taxed reports whether the group carries a tax rate.
func (g Group) Taxed() bool { return !g.TaxRate.IsZero() }

// Value is a rounded valuation. Known is false when a conversion failed; the
// amount is then zero.
type Value struct {
	Amount decimal.Decimal
	Known  bool
}

// Add returns the sum of two values; it is known when both are.
func (v Value) Add(w Value) Value {
	return Value{Amount: v.Amount.Add(w.Amount), Known: v.Known && w.Known}
}

// Equal compares amounts only.
func (v Value) Equal(w Value) bool { return v.Amount.Equal(w.Amount) }

func (v Value) String() string {
	if !v.Known {
		return v.Amount.String() + "?"
	}
	return v.Amount.String()
}

// Calculator values balances in one commodity on one date.
type Calculator struct {
	Prices        *Prices
	Commodity     string
	DecimalPoints int32
	Date          time.Time
}

// On returns a copy of the calculator valuing on another date.
func (c Calculator) On(on time.Time) Calculator {
	c.Date = on
	return c
}

// Round rounds half away from zero to the calculator precision.
func (c Calculator) Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(c.DecimalPoints)
}

// Value returns the rounded value of an account balance.
func (c Calculator) Value(b AccountBalance) Value {
	v, err := b.ValueIn(c.Commodity, c.Date, c.Prices)
	if err != nil {
		return Value{Amount: decimal.Zero}
	}
	return Value{Amount: c.Round(v), Known: true}
}

// GroupValue returns the rounded value of the accounts of a group.
func (c Calculator) GroupValue(b Balance, g Group) Value {
	return c.Value(b.AccountBalance(g.Prefixes...))
}

// NetOfTax splits a rounded group value into what remains after tax and the
// tax itself, both rounded again.
func (c Calculator) NetOfTax(v Value, rate decimal.Decimal) (net, tax Value) {
	one := decimal.NewFromInt(1)
	net = Value{Amount: c.Round(v.Amount.Mul(one.Sub(rate))), Known: v.Known}
	tax = Value{Amount: c.Round(v.Amount.Mul(rate)), Known: v.Known}
	return net, tax
}
