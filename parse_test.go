package networth

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testCase struct {
	name         string
	data         string
	transactions []*Transaction
	err          error
}

var epoch = day("1970-01-01")

var testCases = []testCase{
	{
		"simple",
		`1970/01/01 Payee
	Expense/test  (123 * 3)
	Assets
`,
		[]*Transaction{
			{
				Payee: "Payee",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Expense/test", Amount: amt("369", "")},
					{Account: "Assets", Amount: amt("-369", "")},
				},
			},
		},
		nil,
	},
	{
		"bad payee line",
		`1970/01/01Payee
	Expense/test  (123 * 3)
	Assets      123
`,
		nil,
		errors.New(":1: unable to parse payee line: 1970/01/01Payee"),
	},
	{
		"unbalanced error",
		`1970/01/01 Payee
	Expense/test  (123 * 3)
	Assets      123
`,
		nil,
		errors.New(":3: unable to parse transaction: unable to balance transaction: no empty account to place extra balance"),
	},
	{
		"single posting",
		`1970/01/01 Payee
	Assets:Account    5`,
		nil,
		errors.New(":2: unable to parse transaction: need at least two postings"),
	},
	{
		"no posting",
		`1970/01/01 Payee
`,
		nil,
		errors.New(":1: unable to parse transaction: need at least two postings"),
	},
	{
		"multiple empty",
		`1970/01/01 Payee
	Expense/test  (123 * 3)
	Wallet
	Assets      123
	Bank
`,
		nil,
		errors.New(":5: unable to parse transaction: unable to balance transaction: more than one account empty"),
	},
	{
		"all empty",
		`1970/01/01 Payee
	Expense/test
	Wallet
	Assets
	Bank
`,
		[]*Transaction{
			{
				Payee: "Payee",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Expense/test"},
					{Account: "Wallet"},
					{Account: "Assets"},
					{Account: "Bank"},
				},
			},
		},
		nil,
	},
	{
		"multiple empty lines",
		`1970/01/01 Payee
	Expense/test  (123 * 3)
	Assets



1970/01/01 Payee
	Expense/test   123
	Assets
`,
		[]*Transaction{
			{
				Payee: "Payee",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Expense/test", Amount: amt("369", "")},
					{Account: "Assets", Amount: amt("-369", "")},
				},
			},
			{
				Payee: "Payee",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Expense/test", Amount: amt("123", "")},
					{Account: "Assets", Amount: amt("-123", "")},
				},
			},
		},
		nil,
	},
	{
		"accounts with spaces",
		`1970/01/02 Payee
 Expense:test	369.0
 Assets

; Handle tabs between account and amount
; Also handle accounts with spaces
1970/01/01 Payee 5
	Expense:Cars R Us
	Expense:Cars  358.0
	Expense:Cranks	10
	Expense:Cranks Unlimited	10
	Expense:Cranks United  10
`,
		[]*Transaction{
			{
				Payee: "Payee",
				Date:  day("1970-01-02"),
				Postings: []Posting{
					{Account: "Expense:test", Amount: amt("369", "")},
					{Account: "Assets", Amount: amt("-369", "")},
				},
			},
			{
				Payee: "Payee 5",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Expense:Cars R Us", Amount: amt("-388", "")},
					{Account: "Expense:Cars", Amount: amt("358", "")},
					{Account: "Expense:Cranks", Amount: amt("10", "")},
					{Account: "Expense:Cranks Unlimited", Amount: amt("10", "")},
					{Account: "Expense:Cranks United", Amount: amt("10", "")},
				},
				Comments: []string{
					"; Handle tabs between account and amount",
					"; Also handle accounts with spaces",
				},
			},
		},
		nil,
	},
	{
		"accounts with slashes",
		`1970-01-01 Payee
    Expense/another     5
	Expense/test
	Assets      -128
`,
		[]*Transaction{
			{
				Payee: "Payee",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Expense/another", Amount: amt("5", "")},
					{Account: "Expense/test", Amount: amt("123", "")},
					{Account: "Assets", Amount: amt("-128", "")},
				},
			},
		},
		nil,
	},
	{
		"comment after payee",
		`; before trans
1970-01-01 Payee      ; payee comment
	Expense/test  123
	Assets
`,
		[]*Transaction{
			{
				Payee:        "Payee",
				Date:         epoch,
				PayeeComment: "; payee comment",
				Postings: []Posting{
					{Account: "Expense/test", Amount: amt("123", "")},
					{Account: "Assets", Amount: amt("-123", "")},
				},
				Comments: []string{"; before trans"},
			},
		},
		nil,
	},
	{
		"comment inside transaction",
		`1970-01-01 Payee
	Expense/test  123
	; Expense/test  123
	Assets
`,
		[]*Transaction{
			{
				Payee: "Payee",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Expense/test", Amount: amt("123", "")},
					{Account: "Assets", Amount: amt("-123", "")},
				},
				Comments: []string{"; Expense/test  123"},
			},
		},
		nil,
	},
	{
		"multiple comments",
		`; comment
	1970/01/01 Payee
	Expense/test   58
	Assets         -58           ; comment in trans
	Expense/unbalanced
`,
		[]*Transaction{
			{
				Payee: "Payee",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Expense/test", Amount: amt("58", "")},
					{Account: "Assets", Amount: amt("-58", ""), Comment: "; comment in trans"},
					{Account: "Expense/unbalanced"},
				},
				Comments: []string{"; comment"},
			},
		},
		nil,
	},
	{
		"empty account comment",
		`; comment
	1970/01/01 Payee
	Expense/test   58
	Assets                   ; comment in trans
`,
		[]*Transaction{
			{
				Payee: "Payee",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Expense/test", Amount: amt("58", "")},
					{Account: "Assets", Amount: amt("-58", ""), Comment: "; comment in trans"},
				},
				Comments: []string{"; comment"},
			},
		},
		nil,
	},
	{
		"account skip",
		`1970/01/01 Payee
	Expense/test  123
	Assets

account Expense/test

account Assets
	note bambam
	payee junkjunk

1970/01/01 Payee
	Expense/test  (123 * 2)
	Assets
`,
		[]*Transaction{
			{
				Payee: "Payee",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Expense/test", Amount: amt("123", "")},
					{Account: "Assets", Amount: amt("-123", "")},
				},
			},
			{
				Payee: "Payee",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Expense/test", Amount: amt("246", "")},
					{Account: "Assets", Amount: amt("-246", "")},
				},
			},
		},
		nil,
	},
	{
		"multiple account skip",
		`1970/01/01 Payee
	Expense/test  123
	Assets

account Banking
account Expense/test
account Assets

1970/01/01 Payee
	Expense/test  (123 * 2)
	Assets
`,
		[]*Transaction{
			{
				Payee: "Payee",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Expense/test", Amount: amt("123", "")},
					{Account: "Assets", Amount: amt("-123", "")},
				},
			},
			{
				Payee: "Payee",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Expense/test", Amount: amt("246", "")},
					{Account: "Assets", Amount: amt("-246", "")},
				},
			},
		},
		nil,
	},
	{
		"commodities",
		`1970/01/01 Exchange
	Assets:Bank:USD    -10 USD
	Assets:Bank:PLN    PLN 40
`,
		[]*Transaction{
			{
				Payee: "Exchange",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Assets:Bank:USD", Amount: amt("-10", "USD")},
					{Account: "Assets:Bank:PLN", Amount: amt("40", "PLN")},
				},
			},
		},
		nil,
	},
	{
		"conversion factor",
		`1970/01/01 Converted CZK to EUR
    Assets:Wise:CZK                                                   -2000.00 CZK @ 0.5 EUR
    Assets:Wise:EUR
`,
		[]*Transaction{
			{
				Payee: "Converted CZK to EUR",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Assets:Wise:CZK", Amount: amt("-2000", "CZK"), UnitPrice: &Amount{Quantity: dec("0.5"), Commodity: "EUR"}},
					{Account: "Assets:Wise:EUR", Amount: amt("1000", "EUR")},
				},
			},
		},
		nil,
	},
	{
		"conversion",
		`1970/01/01 Converted CZK to EUR
    Assets:Wise:CZK                                                   -2000.00 @@ 1000.00
    Assets:Wise:EUR                                                    1000.00
`,
		[]*Transaction{
			{
				Payee: "Converted CZK to EUR",
				Date:  epoch,
				Postings: []Posting{
					{Account: "Assets:Wise:CZK", Amount: amt("-2000", ""), TotalPrice: &Amount{Quantity: dec("1000")}},
					{Account: "Assets:Wise:EUR", Amount: amt("1000", "")},
				},
			},
		},
		nil,
	},
}

func TestParseLedger(t *testing.T) {
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := bytes.NewBufferString(tc.data)
			l, err := ParseLedger(b)
			if (err != nil && tc.err == nil) || (err == nil && tc.err != nil) || (err != nil && err.Error() != tc.err.Error()) {
				t.Fatalf("Error: expected `%v`, got `%v`", tc.err, err)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(tc.transactions, l.Transactions, decimalComparer); diff != "" {
				t.Errorf("transactions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLedgerBadDate(t *testing.T) {
	_, err := ParseLedger(strings.NewReader(`1970/02/31 Payee
	Expense/test  (123 * 3)
	Assets
`))
	if err == nil {
		t.Fatal("ParseLedger() succeeded unexpectedly")
	}
	if want := ":1: unable to parse transaction: unable to parse date(1970/02/31)"; !strings.HasPrefix(err.Error(), want) {
		t.Errorf("ParseLedger() error = %q, want prefix %q", err, want)
	}
}

func TestParseLedgerPrices(t *testing.T) {
	l, err := ParseLedger(strings.NewReader(`P 2021/01/01 USD 3.95 PLN
P 2021-01-02 12:00:00 EUR PLN 4.5
; market data
P 2021/01/03 ACME 10 "ACME FUND"
`))
	if err != nil {
		t.Fatal(err)
	}
	want := []PriceDirective{
		{Date: day("2021-01-01"), Commodity: "USD", Price: amt("3.95", "PLN")},
		{Date: day("2021-01-02"), Commodity: "EUR", Price: amt("4.5", "PLN")},
		{Date: day("2021-01-03"), Commodity: "ACME", Price: amt("10", "ACME FUND")},
	}
	if diff := cmp.Diff(want, l.Prices, decimalComparer); diff != "" {
		t.Errorf("prices mismatch (-want +got):\n%s", diff)
	}
	if len(l.Transactions) != 0 {
		t.Errorf("got %d transactions, want none", len(l.Transactions))
	}
}

func TestParseLedgerBadPrice(t *testing.T) {
	_, err := ParseLedger(strings.NewReader("\n\nP 2021/01/01 USD\n"))
	if err == nil || !strings.HasPrefix(err.Error(), ":3: unable to parse price:") {
		t.Errorf("ParseLedger() error = %v, want a price error on line 3", err)
	}
}

func TestParseLedgerFileInclude(t *testing.T) {
	l, err := ParseLedgerFile("testdata/main.ledger")
	if err != nil {
		t.Fatal(err)
	}

	var payees []string
	for _, t := range l.Transactions {
		payees = append(payees, t.Payee)
	}
	// included files come first, in directive order
	want := []string{"Grocery", "Broker", "Opening balance", "Salary", "Exchange"}
	if diff := cmp.Diff(want, payees); diff != "" {
		t.Errorf("payees mismatch (-want +got):\n%s", diff)
	}
	if len(l.Prices) != 3 {
		t.Errorf("got %d prices, want 3", len(l.Prices))
	}

	b := NewBalance(l.Transactions)
	if got := b["Assets:Liquid:USD"]["USD"]; !got.Equal(dec("-200")) {
		t.Errorf("Assets:Liquid:USD = %v, want -200", got)
	}
	if got := b["Assets:Liquid:Bank"]["PLN"]; !got.Equal(dec("16800")) {
		t.Errorf("Assets:Liquid:Bank = %v, want 16800", got)
	}
}

func TestParseLedgerFileIncludeMissing(t *testing.T) {
	_, err := ParseLedger(strings.NewReader("include testdata/nothing-*.ledger\n"))
	if err == nil || !strings.Contains(err.Error(), "unable to include file") {
		t.Errorf("ParseLedger() error = %v, want an include error", err)
	}
}

func BenchmarkParseLedger(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ParseLedgerFile("testdata/main.ledger")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{"10.5 PLN", amt("10.5", "PLN"), false},
		{"PLN 10.5", amt("10.5", "PLN"), false},
		{"PLN -10.5", amt("-10.5", "PLN"), false},
		{"$10", amt("10", "$"), false},
		{"1,234.56 EUR", amt("1234.56", "EUR"), false},
		{"(3 * 4) EUR", amt("12", "EUR"), false},
		{"-5", amt("-5", ""), false},
		{".5 BTC", amt("0.5", "BTC"), false},
		{`10 "ACME FUND"`, amt("10", "ACME FUND"), false},
		{"PLN 10 EUR", Amount{}, true},
		{"abc", Amount{}, true},
		{"", Amount{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got, decimalComparer); diff != "" {
				t.Errorf("parseAmount(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParsePosting(t *testing.T) {
	tests := []struct {
		name        string
		trimmedLine string
		want        Posting
		wantErr     bool
	}{
		{
			"simple",
			"Expense  123",
			Posting{Account: "Expense", Amount: amt("123", "")},
			false,
		},
		{
			"empty",
			"Expense",
			Posting{Account: "Expense"},
			false,
		},
		{
			"spaces",
			"Expense:Cranks Unlimited	10",
			Posting{Account: "Expense:Cranks Unlimited", Amount: amt("10", "")},
			false,
		},
		{
			"multiply",
			"Expense  (123*2)",
			Posting{Account: "Expense", Amount: amt("246", "")},
			false,
		},
		{
			"negative",
			"Expense/test   -158",
			Posting{Account: "Expense/test", Amount: amt("-158", "")},
			false,
		},
		{
			"math",
			"Expense:Bank of:Money  (123*2+3)",
			Posting{Account: "Expense:Bank of:Money", Amount: amt("249", "")},
			false,
		},
		{
			"converted",
			"Expense/test   158 @@ 200",
			Posting{Account: "Expense/test", Amount: amt("158", ""), TotalPrice: &Amount{Quantity: dec("200")}},
			false,
		},
		{
			"conversion",
			"Expense/test   100 USD @ 2 PLN",
			Posting{Account: "Expense/test", Amount: amt("100", "USD"), UnitPrice: &Amount{Quantity: dec("2"), Commodity: "PLN"}},
			false,
		},
		{
			"bad amount",
			"Expense/test   12 PLN EUR",
			Posting{},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := parsePosting(tt.trimmedLine)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("parsePosting() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("parsePosting() succeeded unexpectedly")
			}
			if diff := cmp.Diff(tt.want, got, decimalComparer); diff != "" {
				t.Errorf("parsePosting() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_parser_nextBlock(t *testing.T) {
	lp := newParser(bytes.NewBufferString(`; test
account bam:bam
	subacc line  ; sub comment
	another subacc line

1970/01/01 Payee
	Assets       50
	Expenses
1970/02/30 Error  ; oops
	Assets   30
	Expenses

; trailing`), "simple")

	want := [][]string{
		{"; test", "account bam:bam", "subacc line  ; sub comment", "another subacc line"},
		{"1970/01/01 Payee", "Assets       50", "Expenses"},
		{"1970/02/30 Error  ; oops", "Assets   30", "Expenses"},
		{"; trailing"},
	}
	wantLines := []int{2, 6, 9, 13}
	for i := range want {
		got, err := lp.nextBlock()
		if err != nil {
			t.Fatalf("block %d: nextBlock() failed: %v", i, err)
		}
		if diff := cmp.Diff(want[i], got.body); diff != "" {
			t.Errorf("block %d mismatch (-want +got):\n%s", i, diff)
		}
		if i < 3 && got.lineNum != wantLines[i] {
			t.Errorf("block %d: lineNum = %d, want %d", i, got.lineNum, wantLines[i])
		}
	}
	if _, err := lp.nextBlock(); !errors.Is(err, io.EOF) {
		t.Errorf("nextBlock() at the end = %v, want io.EOF", err)
	}
}

func Test_block_transaction(t *testing.T) {
	in := block{
		lineNum:  1,
		filename: "simple",
		body: []string{
			"1970/01/01 Payee",
			"Assets       50",
			"Expenses",
		},
	}
	want := &Transaction{
		Payee: "Payee",
		Date:  epoch,
		Postings: []Posting{
			{Account: "Assets", Amount: amt("50", "")},
			{Account: "Expenses", Amount: amt("-50", "")},
		},
	}

	before, after, comment, err := in.header()
	if err != nil {
		t.Fatal(err)
	}
	if in.headingLine != 0 {
		t.Errorf("headingLine is %d not %d", in.headingLine, 0)
	}
	trx, err := in.transaction(newParser(strings.NewReader(""), "simple"), before, after, comment)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, trx, decimalComparer); diff != "" {
		t.Errorf("block.transaction() mismatch (-want +got):\n%s", diff)
	}
}
