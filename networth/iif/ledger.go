package iif

import (
	"github.com/plenert-macdonald/networth"
)

// ToLedger converts IIF transactions into ledger transactions. The TRNS line
// posts to src.Account (or to its own account when src.Account is empty),
// every SPL line to its account; splits without an account are classified
// from the payee. All amounts are in src.Commodity.
func ToLedger(transactions []Transaction, src networth.Source) []*networth.Transaction {
	result := make([]*networth.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		payee := tx.Name
		if payee == "" {
			payee = tx.Memo
		}
		account := src.Account
		if account == "" {
			account = tx.Account
		}

		t := &networth.Transaction{
			Date:     networth.Day(tx.Date),
			Payee:    payee,
			Postings: []networth.Posting{posting(account, tx.Line, src.Commodity)},
		}
		if tx.Memo != "" {
			t.Comments = []string{";" + tx.Memo}
		}

		for _, spl := range tx.Splits {
			account := spl.Account
			if account == "" {
				account = src.CounterAccount(payee)
			}
			p := posting(account, spl, src.Commodity)
			if spl.Memo != "" {
				p.Comment = ";" + spl.Memo
			}
			t.Postings = append(t.Postings, p)
		}
		if len(tx.Splits) == 0 {
			t.Postings = append(t.Postings, networth.Posting{
				Account: src.CounterAccount(payee),
				Amount:  networth.Amount{Quantity: tx.Amount.Neg(), Commodity: src.Commodity},
			})
		}
		result = append(result, t)
	}
	return result
}

func posting(account string, l Line, commodity string) networth.Posting {
	return networth.Posting{
		Account: account,
		Amount:  networth.Amount{Quantity: l.Amount, Commodity: commodity},
	}
}
