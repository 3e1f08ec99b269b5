package cmd

import (
	"bufio"
	"errors"
	"io"
	"os"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/plenert-macdonald/networth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	transactionDateFormat = "2006/01/02"
	newLine               = "\n"
)

var startString, endString string
var columnWidth int
var columnWide bool
var payeeFilter string
var spaceStr string

// terminalWidth returns columns, or the width of the terminal on stdout
// when columns is not positive, or 80.
func terminalWidth(columns int) int {
	if columns > 0 {
		return columns
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if tw, _, err := term.GetSize(fd); err == nil {
			return tw
		}
	}
	return 80
}

func cliTransactions() ([]*networth.Transaction, error) {
	if columnWidth == 80 && columnWide {
		columnWidth = terminalWidth(0)
	}

	parsedStartDate, tstartErr := dateparse.ParseAny(startString)
	parsedEndDate, tendErr := dateparse.ParseAny(endString)

	if tstartErr != nil || tendErr != nil {
		return nil, errors.New("unable to parse start or end date string argument")
	}

	// include end dates' transactions too
	parsedEndDate = parsedEndDate.Add(time.Second)

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	l, _, err := loadLedger(cfg)
	if err != nil {
		return nil, err
	}

	transactions := networth.TransactionsInDateRange(l.Transactions, parsedStartDate, parsedEndDate)

	filtered := make([]*networth.Transaction, 0, len(transactions))
	for _, trans := range transactions {
		if strings.Contains(trans.Payee, payeeFilter) {
			filtered = append(filtered, trans)
		}
	}

	return filtered, nil
}

// printCmd represents the print command
var printCmd = &cobra.Command{
	Use:   "print [account-substring-filter]...",
	Short: "Print the joined transactions in ledger file format",
	RunE: func(_ *cobra.Command, args []string) error {
		transactions, err := cliTransactions()
		if err != nil {
			return err
		}

		return PrintLedger(os.Stdout, transactions, args, columnWidth)
	},
}

func init() {
	rootCmd.AddCommand(printCmd)

	var startDate, endDate time.Time
	startDate = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	endDate = time.Now().AddDate(100, 0, 0)
	printCmd.Flags().StringVarP(&startString, "begin-date", "b", startDate.Format(transactionDateFormat), "Begin date of transaction processing.")
	printCmd.Flags().StringVarP(&endString, "end-date", "e", endDate.Format(transactionDateFormat), "End date of transaction processing.")
	printCmd.Flags().StringVar(&payeeFilter, "payee", "", "Filter output to payees that contain this string.")
	printCmd.Flags().IntVar(&columnWidth, "columns", 80, "Set a column width for output.")
	printCmd.Flags().BoolVar(&columnWide, "wide", false, "Wide output (use terminal width).")
}

func postingAmount(p networth.Posting) string {
	out := p.Amount.String()
	// Show converted amount (@@) or conversion factor (@) similar to hledger
	if p.TotalPrice != nil {
		out = out + " @@ " + p.TotalPrice.String()
	} else if p.UnitPrice != nil {
		out = out + " @ " + p.UnitPrice.String()
	}
	return out
}

// WriteTransaction writes a transaction formatted to fit in specified column width.
func WriteTransaction(w io.StringWriter, trans *networth.Transaction, columns int) {
	if len(spaceStr) < columns {
		spaceStr = strings.Repeat(" ", columns)
	}

	for _, c := range trans.Comments {
		w.WriteString(c)
		w.WriteString(newLine)
	}

	// Print accounts sorted by name
	postings := slices.Clone(trans.Postings)
	slices.SortStableFunc(postings, func(a, b networth.Posting) int {
		return strings.Compare(a.Account, b.Account)
	})

	w.WriteString(trans.Date.Format(transactionDateFormat))
	w.WriteString(spaceStr[:1])
	w.WriteString(trans.Payee)
	if len(trans.PayeeComment) > 0 {
		spaceCount := columns - 10 - utf8.RuneCountInString(trans.Payee)
		if spaceCount < 1 {
			spaceCount = 1
		}
		w.WriteString(spaceStr[:spaceCount])
		w.WriteString(trans.PayeeComment)
	}
	w.WriteString(newLine)
	for _, p := range postings {
		outBalanceString := postingAmount(p)
		spaceCount := columns - 4 - utf8.RuneCountInString(p.Account) - utf8.RuneCountInString(outBalanceString)
		if spaceCount < 2 {
			spaceCount = 2
		}
		w.WriteString(spaceStr[:4])
		w.WriteString(p.Account)
		w.WriteString(spaceStr[:spaceCount])
		w.WriteString(outBalanceString)
		if len(p.Comment) > 0 {
			w.WriteString(spaceStr[:1])
			w.WriteString(p.Comment)
		}
		w.WriteString(newLine)
	}
	w.WriteString(newLine)
}

// PrintLedger prints the transactions that touch an account containing one
// of the filters, or all of them without filters, as a ledger file.
func PrintLedger(out io.Writer, transactions []*networth.Transaction, filterArr []string, columns int) error {
	buf := bufio.NewWriter(out)
	for _, trans := range transactions {
		inFilter := len(filterArr) == 0
		for _, p := range trans.Postings {
			for _, filter := range filterArr {
				if strings.Contains(p.Account, filter) {
					inFilter = true
				}
			}
		}
		if inFilter {
			WriteTransaction(buf, trans, columns)
		}
	}
	return buf.Flush()
}
